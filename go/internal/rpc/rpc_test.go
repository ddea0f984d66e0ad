package rpc

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"connectrpc.com/connect"

	"github.com/mcdev12/partyvote/go/internal/apperr"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"validation", fmt.Errorf("validation failed: %w", apperr.Invalid("name is required", "name")), connect.CodeInvalidArgument},
		{"not found", apperr.NotFound("question", 3), connect.CodeNotFound},
		{"unauthorized", fmt.Errorf("wipe: %w", apperr.ErrUnauthorized), connect.CodeUnauthenticated},
		{"stale version", fmt.Errorf("transition: %w", apperr.ErrStaleVersion), connect.CodeAborted},
		{"precondition", apperr.ErrPrecondition, connect.CodeFailedPrecondition},
		{"internal", errors.New("connection reset"), connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := connect.CodeOf(ToConnectError(tt.err))
			if got != tt.want {
				t.Errorf("code = %v, want %v", got, tt.want)
			}
		})
	}

	if ToConnectError(nil) != nil {
		t.Error("nil error must stay nil")
	}
}

func TestUnauthorizedHidesCause(t *testing.T) {
	err := ToConnectError(fmt.Errorf("reseed players: bad hash: %w", apperr.ErrUnauthorized))

	var ce *connect.Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *connect.Error, got %T", err)
	}
	if ce.Message() != "unauthorized" {
		t.Errorf("message = %q, want %q", ce.Message(), "unauthorized")
	}
}

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{name: "json"}

	type msg struct {
		QuestionID int `json:"question_id"`
	}

	data, err := codec.Marshal(msg{QuestionID: 4})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"question_id":4}` {
		t.Errorf("unexpected payload %s", data)
	}

	var out msg
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.QuestionID != 4 {
		t.Errorf("QuestionID = %d, want 4", out.QuestionID)
	}

	// An empty body decodes to the zero request.
	var empty msg
	if err := codec.Unmarshal(nil, &empty); err != nil {
		t.Errorf("empty body: %v", err)
	}
}

func TestAdminSecret(t *testing.T) {
	h := http.Header{}
	h.Set(AdminSecretHeader, "s3cret")
	if got := AdminSecret(h); got != "s3cret" {
		t.Errorf("AdminSecret = %q", got)
	}
}
