package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceType_IsValid(t *testing.T) {
	for _, st := range AllServiceTypes() {
		assert.True(t, st.IsValid(), st.String())
		assert.NotEqual(t, st.String(), st.Label())
	}
	assert.False(t, ServiceType("RENT").IsValid())
	assert.False(t, ServiceType("").IsValid())
}

func TestPropertyObjectType_IsValid(t *testing.T) {
	for _, ot := range AllPropertyObjectTypes() {
		assert.True(t, ot.IsValid())
	}
	assert.False(t, PropertyObjectType("ROOF").IsValid())
}

func TestBusinessCategory_IsValid(t *testing.T) {
	assert.True(t, BusinessCategoryCheese.IsValid())
	assert.False(t, BusinessCategory("cheese").IsValid())
}

func TestNewPropertyObject(t *testing.T) {
	t.Run("valid object", func(t *testing.T) {
		obj, err := NewPropertyObject("  Screen #1 ", PropertyObjectTypeLEDScreen, "6x3 m", "Entrance A")
		require.NoError(t, err)
		assert.Equal(t, "Screen #1", obj.Name)
		assert.Equal(t, 1, obj.Version)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewPropertyObject(" ", PropertyObjectTypeBox, "", "")
		assert.Error(t, err)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := NewPropertyObject("Box", PropertyObjectType("X"), "", "")
		assert.Error(t, err)
	})
}

func TestPropertyObject_Update(t *testing.T) {
	obj, err := NewPropertyObject("Banner", PropertyObjectTypeBanner, "", "")
	require.NoError(t, err)

	require.NoError(t, obj.Update("Banner north", PropertyObjectTypeBanner, "3x1", "North wall"))
	assert.Equal(t, "Banner north", obj.Name)
	assert.Equal(t, 2, obj.Version)

	assert.Error(t, obj.Update("", PropertyObjectTypeBanner, "", ""))
}

func TestLabels_CoverEveryValue(t *testing.T) {
	for _, v := range AllPropertyObjectTypes() {
		assert.NotEqual(t, string(v), v.Label(), "missing label for %s", v)
	}
	for _, v := range AllServiceTypes() {
		assert.NotEqual(t, string(v), v.Label(), "missing label for %s", v)
	}
	for _, v := range AllBusinessCategories() {
		assert.NotEqual(t, string(v), v.Label(), "missing label for %s", v)
	}
	assert.Equal(t, "Ресторан/Кафе", BusinessCategoryRestaurant.Label())
	assert.Equal(t, "UNKNOWN", PropertyObjectType("UNKNOWN").Label())
}
