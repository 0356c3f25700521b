package shared

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr error
		errText string
	}{
		{name: "valid", body: `{"name":"Noa","age":30}`},
		{name: "unknown fields are ignored", body: `{"name":"Noa","extra":true}`},
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
		{name: "trailing comma", body: `{"name":"Noa",}`, errText: "invalid JSON body"},
		{name: "wrong type", body: `{"age":"thirty"}`, errText: "invalid JSON body"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tc.body))
			var got payload
			err := DecodeJSON(req, &got)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Noa", got.Name)
			}
		})
	}
}

func TestDecodeJSON_BodyLimit(t *testing.T) {
	big := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(big))
	var got struct {
		Name string `json:"name"`
	}
	assert.Error(t, DecodeJSON(req, &got))
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	type tagged struct {
		Email string `validate:"required,email"`
	}

	assert.NoError(t, ValidateRequest(tagged{Email: "noa@example.com"}))
	assert.Error(t, ValidateRequest(tagged{Email: "not-an-email"}))
	assert.Error(t, ValidateRequest(tagged{}))

	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}
