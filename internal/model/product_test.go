package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_Scan(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    JSONMap
		wantErr bool
	}{
		{name: "bytes", value: []byte(`{"brand":"Maison"}`), want: JSONMap{"brand": "Maison"}},
		{name: "text", value: `{"warranty":"2 ans"}`, want: JSONMap{"warranty": "2 ans"}},
		{name: "null", value: nil, want: nil},
		{name: "unsupported", value: 42, wantErr: true},
		{name: "malformed", value: []byte(`{`), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got JSONMap
			err := got.Scan(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONMap_ValueNil(t *testing.T) {
	v, err := JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestProductRecord_SanitizeExtras(t *testing.T) {
	p := ProductRecord{ExtraAttributes: JSONMap{
		ExtraFeatures: []any{"convertible"},
		ExtraBrand:    "Maison",
		"internal_sku": "X-77",
	}}
	p.SanitizeExtras()
	assert.Equal(t, JSONMap{ExtraFeatures: []any{"convertible"}, ExtraBrand: "Maison"}, p.ExtraAttributes)
}
