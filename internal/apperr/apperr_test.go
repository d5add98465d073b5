package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserErrors(t *testing.T) {
	base := errors.New("not a number")

	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantUser bool
	}{
		{name: "plain", err: User("missing --input"), wantMsg: "missing --input", wantUser: true},
		{name: "formatted", err: Userf("unknown format %q", "xml"), wantMsg: `unknown format "xml"`, wantUser: true},
		{name: "wrapped", err: Wrap(base, "invalid weight"), wantMsg: "invalid weight: not a number", wantUser: true},
		{name: "wrapped further", err: fmt.Errorf("label: %w", User("bad")), wantMsg: "label: bad", wantUser: true},
		{name: "system error", err: errors.New("disk full"), wantMsg: "disk full", wantUser: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.wantUser, IsUser(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))

	base := errors.New("boom")
	assert.ErrorIs(t, Wrap(base, "context"), base)
}
