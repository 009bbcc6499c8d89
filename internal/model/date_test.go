package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-31")
	assert.NoError(t, err)
	assert.Equal(t, "2026-08-31", d.String())

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)

	_, err = ParseDate("2026-13-01")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	d, _ := ParseDate("2026-08-31")
	data, err := json.Marshal(d)
	assert.NoError(t, err)
	assert.Equal(t, `"2026-08-31"`, string(data))

	var parsed Date
	assert.NoError(t, json.Unmarshal([]byte(`"2026-01-02"`), &parsed))
	assert.Equal(t, "2026-01-02", parsed.String())

	assert.Error(t, json.Unmarshal([]byte(`"02/01/2026"`), &parsed))
}

func TestDateScan(t *testing.T) {
	var d Date
	assert.NoError(t, d.Scan([]byte("2026-08-31")))
	assert.Equal(t, "2026-08-31", d.String())

	assert.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), "category %s", c)
	}
	assert.Len(t, Categories, 11)
	assert.False(t, Category("GAMBLING").Valid())
	assert.False(t, Category("food").Valid())
	assert.Equal(t, "Food", CategoryFood.Label())
}
