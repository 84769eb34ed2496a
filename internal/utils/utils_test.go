package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("boom")

	testCases := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"Invalid link", NewInvalidLinkError("hello"), ErrorCodeInvalidLink},
		{"Download", NewDownloadError(cause), ErrorCodeDownloadFailed},
		{"Transcode", NewTranscodeError(cause), ErrorCodeTranscodeFailed},
		{"Delivery", NewDeliveryError(cause), ErrorCodeDeliveryFailed},
		{"Upload", NewUploadError(cause), ErrorCodeUploadFailed},
		{"Internal", NewInternalError(cause), ErrorCodeInternalError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.UserMessage == "" {
				t.Error("expected a user-facing message")
			}
			if CodeOf(tc.err) != tc.code {
				t.Errorf("CodeOf() = %s, want %s", CodeOf(tc.err), tc.code)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewUploadError(cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}

	wrapped := fmt.Errorf("pipeline: %w", err)
	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("expected errors.As to find AppError through wrapping")
	}
	if appErr.Code != ErrorCodeUploadFailed {
		t.Errorf("expected UPLOAD_FAILED, got %s", appErr.Code)
	}
}

func TestUserMessage(t *testing.T) {
	appErr := NewDownloadError(errors.New("403"))
	if UserMessage(appErr) != appErr.UserMessage {
		t.Error("expected the typed user message")
	}

	// Untyped errors never leak internals into the chat
	plain := errors.New("dial tcp: connection refused")
	if msg := UserMessage(plain); msg == plain.Error() {
		t.Error("untyped error text must not be echoed to the user")
	}

	if CodeOf(plain) != ErrorCodeInternalError {
		t.Errorf("expected INTERNAL_ERROR for untyped error, got %s", CodeOf(plain))
	}
}

func TestRequestIDContext(t *testing.T) {
	requestID := GenerateRequestID()
	if requestID == "" {
		t.Fatal("expected non-empty request ID")
	}
	if requestID == GenerateRequestID() {
		t.Error("request IDs should be unique")
	}

	ctx := WithRequestID(context.Background(), requestID)
	if got := GetRequestID(ctx); got != requestID {
		t.Errorf("GetRequestID() = %q, want %q", got, requestID)
	}

	ctx = WithChatID(ctx, 42)
	if id, ok := GetChatID(ctx); !ok || id != 42 {
		t.Errorf("GetChatID() = %d, %v, want 42, true", id, ok)
	}
}
