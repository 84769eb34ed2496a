package utils

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorCodeInvalidLink     ErrorCode = "INVALID_LINK"
	ErrorCodeDownloadFailed  ErrorCode = "DOWNLOAD_FAILED"
	ErrorCodeTranscodeFailed ErrorCode = "TRANSCODE_FAILED"
	ErrorCodeDeliveryFailed  ErrorCode = "DELIVERY_FAILED"
	ErrorCodeUploadFailed    ErrorCode = "UPLOAD_FAILED"
	ErrorCodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// AppError is the error type crossing pipeline stage boundaries. UserMessage
// is safe to echo back into the chat; Err carries the underlying cause for
// the logs only.
type AppError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	UserMessage string                 `json:"-"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Err         error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewError(code ErrorCode, message, userMessage string, err error) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		UserMessage: userMessage,
		Err:         err,
	}
}

// Common error constructors
func NewInvalidLinkError(link string) *AppError {
	return &AppError{
		Code:        ErrorCodeInvalidLink,
		Message:     "message does not contain a valid YouTube link",
		UserMessage: "That doesn't look like a YouTube link. Send me a youtube.com/watch or youtu.be URL.",
		Details: map[string]interface{}{
			"provided": link,
		},
	}
}

func NewDownloadError(err error) *AppError {
	return NewError(
		ErrorCodeDownloadFailed,
		"failed to download audio from YouTube",
		"Download failed. The video may be private, region-locked or removed.",
		err,
	)
}

func NewTranscodeError(err error) *AppError {
	return NewError(
		ErrorCodeTranscodeFailed,
		"failed to transcode audio to MP3",
		"Converting the audio failed. Please try again later.",
		err,
	)
}

func NewDeliveryError(err error) *AppError {
	return NewError(
		ErrorCodeDeliveryFailed,
		"failed to deliver file to chat",
		"Sending the file to this chat failed.",
		err,
	)
}

func NewUploadError(err error) *AppError {
	return NewError(
		ErrorCodeUploadFailed,
		"failed to upload file to cloud storage",
		"Uploading to cloud storage failed.",
		err,
	)
}

func NewInternalError(err error) *AppError {
	return NewError(
		ErrorCodeInternalError,
		"an unexpected error occurred",
		"Something went wrong. Please try again.",
		err,
	)
}

// UserMessage extracts the chat-safe text for any pipeline error.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.UserMessage != "" {
		return appErr.UserMessage
	}
	return "Something went wrong. Please try again."
}

// CodeOf returns the error code, or INTERNAL_ERROR for untyped errors.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCodeInternalError
}
