package checkout

import "errors"

var (
	// ErrEmptyCart blocks checkout when there is nothing to order.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrMissingLocation means delivery was selected but no coordinate was
	// acquired. Recoverable; the caller retries location acquisition.
	ErrMissingLocation = errors.New("delivery requires a resolved location")

	// ErrMissingAddress means delivery was selected without a street address.
	ErrMissingAddress = errors.New("delivery requires an address")

	// ErrUnsupportedPayment is returned for anything but cash on delivery.
	ErrUnsupportedPayment = errors.New("payment method not supported, use cash on delivery")

	ErrInvalidDeliveryOption = errors.New("delivery option must be delivery or pickup")
)
