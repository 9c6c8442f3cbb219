package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is returned when a request carries no resolved identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAuctionNotFound is returned when an auction id does not resolve.
	ErrAuctionNotFound = errors.New("auction not found")
	// ErrAuctionClosed is returned when a bid arrives after the auction expired.
	ErrAuctionClosed = errors.New("bid too late")
	// ErrBidTooLow is returned when a bid is not strictly above the current highest bid.
	ErrBidTooLow = errors.New("bid too low")
	// ErrBidConflict is returned when concurrent bids kept winning the conditional update.
	ErrBidConflict = errors.New("bid conflict, please retry")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors, possibly wrapped, to HTTP errors.
// Unknown errors become an opaque 500 so storage details never leak.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrAuctionNotFound):
		return NewHTTPError(http.StatusNotFound, ErrAuctionNotFound.Error(), "AUCTION_NOT_FOUND")
	case errors.Is(err, ErrAuctionClosed):
		return NewHTTPError(http.StatusBadRequest, ErrAuctionClosed.Error(), "AUCTION_CLOSED")
	case errors.Is(err, ErrBidTooLow):
		return NewHTTPError(http.StatusBadRequest, ErrBidTooLow.Error(), "BID_TOO_LOW")
	case errors.Is(err, ErrBidConflict):
		return NewHTTPError(http.StatusConflict, ErrBidConflict.Error(), "BID_CONFLICT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// Code returns the stable error code for err, as used in bid logs.
func Code(err error) string {
	return MapErrorToHTTP(err).Code
}
