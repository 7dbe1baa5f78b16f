package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/minio/minio-go/v7"
)

// Kind categorises a storage error without exposing provider-specific codes.
type Kind int

const (
	KindUnknown          Kind = iota
	KindNotFound              // no such bucket or object
	KindConflict              // bucket already exists, bucket not empty
	KindCredentials           // credentials missing, incomplete or rejected
	KindPermissionDenied      // authenticated but not allowed
	KindInvalidInput          // bad bucket name, key or argument
	KindTimeout               // deadline, cancellation or throttling
	KindConnectionFailed      // the service could not be reached
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindCredentials:
		return "credentials"
	case KindPermissionDenied:
		return "permission_denied"
	case KindInvalidInput:
		return "invalid_input"
	case KindTimeout:
		return "timeout"
	case KindConnectionFailed:
		return "connection_failed"
	default:
		return "unknown"
	}
}

// ErrCredentialsMissing is returned when the access key or secret key is absent.
var ErrCredentialsMissing = errors.New("credentials are not available or incomplete")

// Error is the single error type returned by storage clients.
type Error struct {
	// Op is the operation that failed (e.g. "put", "get", "make_bucket").
	Op     string
	Bucket string
	Key    string
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Bucket != "" && e.Key != "":
		return fmt.Sprintf("storage.%s %s/%s [%s]: %v", e.Op, e.Bucket, e.Key, e.Kind, e.Err)
	case e.Bucket != "":
		return fmt.Sprintf("storage.%s bucket %s [%s]: %v", e.Op, e.Bucket, e.Kind, e.Err)
	default:
		return fmt.Sprintf("storage.%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
}

// Unwrap allows errors.Is / errors.As to reach the provider error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error with an explicit kind.
func NewError(op, bucket, key string, kind Kind, err error) *Error {
	return &Error{Op: op, Bucket: bucket, Key: key, Kind: kind, Err: err}
}

// KindOf extracts the Kind from any error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err means the bucket or object does not exist.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a bucket naming or emptiness conflict.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsCredentials reports whether err was caused by missing or rejected credentials.
func IsCredentials(err error) bool { return KindOf(err) == KindCredentials }

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool { return KindOf(err) == KindPermissionDenied }

// IsInvalidInput reports whether err was caused by bad caller input.
func IsInvalidInput(err error) bool { return KindOf(err) == KindInvalidInput }

// IsTimeout reports whether err was caused by a deadline, cancellation or throttling.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// kindFromCode maps S3 error codes, shared by both providers.
func kindFromCode(code string) (Kind, bool) {
	switch code {
	case "NoSuchBucket", "NoSuchKey", "NotFound", "NoSuchUpload":
		return KindNotFound, true
	case "BucketAlreadyExists", "BucketAlreadyOwnedByYou", "BucketNotEmpty":
		return KindConflict, true
	case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken", "MissingSecurityHeader":
		return KindCredentials, true
	case "AccessDenied", "AllAccessDisabled", "AccountProblem":
		return KindPermissionDenied, true
	case "InvalidBucketName", "InvalidObjectName", "KeyTooLongError", "InvalidArgument", "InvalidRange":
		return KindInvalidInput, true
	case "RequestTimeout", "SlowDown", "RequestTimeTooSkewed":
		return KindTimeout, true
	}
	return KindUnknown, false
}

// kindFromStatus maps an HTTP status when the error code is not recognised.
func kindFromStatus(status int) (Kind, bool) {
	switch status {
	case http.StatusNotFound:
		return KindNotFound, true
	case http.StatusConflict:
		return KindConflict, true
	case http.StatusUnauthorized:
		return KindCredentials, true
	case http.StatusForbidden:
		return KindPermissionDenied, true
	case http.StatusBadRequest:
		return KindInvalidInput, true
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindTimeout, true
	}
	return KindUnknown, false
}

// contextKind maps context errors, which both SDKs pass through unchanged.
func contextKind(err error) (Kind, bool) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout, true
	}
	if errors.Is(err, ErrCredentialsMissing) {
		return KindCredentials, true
	}
	return KindUnknown, false
}

// mapMinioError translates a minio-go error into *Error.
func mapMinioError(op, bucket, key string, err error) error {
	if err == nil {
		return nil
	}
	if kind, ok := contextKind(err); ok {
		return NewError(op, bucket, key, kind, err)
	}

	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return NewError(op, bucket, key, KindConnectionFailed, err)
	}
	if kind, ok := kindFromCode(resp.Code); ok {
		return NewError(op, bucket, key, kind, err)
	}
	if kind, ok := kindFromStatus(resp.StatusCode); ok {
		return NewError(op, bucket, key, kind, err)
	}
	return NewError(op, bucket, key, KindUnknown, err)
}

// mapAWSError translates an aws-sdk-go-v2 error into *Error.
func mapAWSError(op, bucket, key string, err error) error {
	if err == nil {
		return nil
	}
	if kind, ok := contextKind(err); ok {
		return NewError(op, bucket, key, kind, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := kindFromCode(apiErr.ErrorCode()); ok {
			return NewError(op, bucket, key, kind, err)
		}
	}

	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		if kind, ok := kindFromStatus(statusErr.HTTPStatusCode()); ok {
			return NewError(op, bucket, key, kind, err)
		}
		return NewError(op, bucket, key, KindUnknown, err)
	}

	// The signer fails before any request is sent when the credential
	// chain comes up empty.
	if strings.Contains(err.Error(), "retrieve credentials") || strings.Contains(err.Error(), "refresh cached credentials") {
		return NewError(op, bucket, key, KindCredentials, err)
	}
	if apiErr != nil {
		return NewError(op, bucket, key, KindUnknown, err)
	}
	if isNetworkError(err) {
		return NewError(op, bucket, key, KindConnectionFailed, err)
	}
	// Failures inside the SDK pipeline (validation, checksums, serialization)
	// never reached the endpoint.
	var opErr *smithy.OperationError
	if errors.As(err, &opErr) {
		return NewError(op, bucket, key, KindUnknown, err)
	}
	return NewError(op, bucket, key, KindConnectionFailed, err)
}

func isNetworkError(err error) bool {
	var sendErr *smithyhttp.RequestSendError
	var netErr net.Error
	var urlErr *url.Error
	return errors.As(err, &sendErr) || errors.As(err, &netErr) || errors.As(err, &urlErr)
}
