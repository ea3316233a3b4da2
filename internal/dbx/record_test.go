package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Getters(t *testing.T) {
	rec := Record{
		"password_id": int64(7),
		"web_site":    "example.com",
		"is_fav":      true,
		"score":       2.5,
		"comment":     nil,
	}

	assert.Equal(t, int64(7), rec.Int("password_id"))
	assert.Equal(t, "example.com", rec.String("web_site"))
	assert.True(t, rec.Bool("is_fav"))
	assert.Equal(t, 2.5, rec.Float("score"))

	assert.True(t, rec.Has("comment"))
	assert.True(t, rec.IsNull("comment"))
	assert.False(t, rec.Has("missing"))
	assert.False(t, rec.IsNull("missing"))
}

func TestRecord_ZeroValuesForAbsentOrNull(t *testing.T) {
	rec := Record{"comment": nil}

	assert.Equal(t, int64(0), rec.Int("comment"))
	assert.Equal(t, "", rec.String("comment"))
	assert.False(t, rec.Bool("comment"))
	assert.Equal(t, float64(0), rec.Float("missing"))
}
