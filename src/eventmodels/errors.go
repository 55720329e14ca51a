package eventmodels

import "errors"

var (
	ErrInvalidExpiration     = errors.New("invalid expiration")
	ErrUndecodableInstrument = errors.New("undecodable instrument code")
	ErrInvalidContractKey    = errors.New("invalid contract key")
	ErrStoreNotInitialized   = errors.New("store not initialized")
	ErrUnknownFeedEvent      = errors.New("unknown feed event")
	ErrSpotPriceUnknown      = errors.New("spot price unknown")
)
