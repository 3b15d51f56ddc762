package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watchlogapp/watchlog-server/internal/errors"
	"github.com/watchlogapp/watchlog-server/internal/validation"
)

type entryRequest struct {
	CatalogItemID string  `json:"catalog_item_id" validate:"required"`
	MediaType     string  `json:"media_type" validate:"required,mediatype"`
	Status        string  `json:"status" validate:"required,liststatus"`
	Score         float64 `json:"score" validate:"gte=0,lte=10"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(entryRequest{
		CatalogItemID: "cat-001",
		MediaType:     "anime",
		Status:        "watching",
		Score:         8.5,
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        entryRequest
		wantErrMsg string
	}{
		{
			name: "missing catalog id",
			req: entryRequest{
				MediaType: "anime",
				Status:    "watching",
			},
			wantErrMsg: "catalog_item_id",
		},
		{
			name: "unknown media type",
			req: entryRequest{
				CatalogItemID: "cat-001",
				MediaType:     "podcast",
				Status:        "watching",
			},
			wantErrMsg: "media_type",
		},
		{
			name: "unknown status",
			req: entryRequest{
				CatalogItemID: "cat-001",
				MediaType:     "manga",
				Status:        "archived",
			},
			wantErrMsg: "status",
		},
		{
			name: "score out of range",
			req: entryRequest{
				CatalogItemID: "cat-001",
				MediaType:     "anime",
				Status:        "watching",
				Score:         11,
			},
			wantErrMsg: "score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *errors.Error
			assert.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			assert.True(t, ok)
			assert.Contains(t, details, tt.wantErrMsg)
		})
	}
}
