package httpapi

import (
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestMustRegisterPattern_PanicsOnBadTag(t *testing.T) {
	v := validator.New()
	assert.Panics(t, func() {
		mustRegisterPattern(v, "", regexp.MustCompile(`.*`))
	})
}

func TestCheckStruct_CustomTags(t *testing.T) {
	tests := []struct {
		name string
		req  searchRequest
		ok   bool
	}{
		{"period is rejected", searchRequest{Query: "St. Louis"}, false},
		{"apostrophe and hyphen", searchRequest{Query: "L'Aquila-Centro"}, true},
		{"with country", searchRequest{Query: "Paris", Country: "FR"}, true},
		{"lowercase country", searchRequest{Query: "Paris", Country: "fr"}, false},
		{"too short", searchRequest{Query: "P"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStruct(tt.req)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
