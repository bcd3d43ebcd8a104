package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStringListDecodesLegacyCommaString(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"sizes": "S, M ,L,M"})
	require.NoError(t, err)

	var doc struct {
		Sizes StringList `bson:"sizes"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Equal(t, StringList{"S", "M", "L"}, doc.Sizes)
}

func TestStringListDecodesArrayAndNull(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"colors": bson.A{"black", " ", "ivory"}, "images": nil})
	require.NoError(t, err)

	var doc struct {
		Colors StringList `bson:"colors"`
		Images StringList `bson:"images"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Equal(t, StringList{"black", "ivory"}, doc.Colors)
	assert.Empty(t, doc.Images)
	assert.Equal(t, "", doc.Images.First())
}

func TestStringListMarshalsNilAsEmptyArray(t *testing.T) {
	raw, err := bson.Marshal(struct {
		Images StringList `bson:"images"`
	}{})
	require.NoError(t, err)

	var out bson.M
	require.NoError(t, bson.Unmarshal(raw, &out))
	require.Contains(t, out, "images")
	assert.IsType(t, bson.A{}, out["images"])
	assert.Len(t, out["images"], 0)
}
