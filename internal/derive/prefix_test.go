package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		name       string
		custom     string
		method     string
		text       string
		stripped   string
		kind       QueryKind
		style      SingleResultStyle
		maxResults int
	}{
		{name: "findBy", method: "findByName", text: "findBy", stripped: "Name"},
		{name: "findAll", method: "findAllOrderByName", text: "findAll", stripped: "OrderByName"},
		{name: "findFirst", method: "findFirst10ByName", text: "findFirst10By", stripped: "Name", maxResults: 10},
		{name: "findTop without By", method: "findTop3OrderByIdDesc", text: "findTop3", stripped: "OrderByIdDesc", maxResults: 3},
		{name: "findOptionalBy", method: "findOptionalByName", text: "findOptionalBy", stripped: "Name", style: SingleOptional},
		{name: "findAnyBy", method: "findAnyByName", text: "findAnyBy", stripped: "Name", style: SingleAny},
		{name: "deleteBy", method: "deleteByName", text: "deleteBy", stripped: "Name", kind: KindDelete, style: SingleAny},
		{name: "removeBy", method: "removeByName", text: "removeBy", stripped: "Name", kind: KindDelete, style: SingleAny},
		{name: "countBy", method: "countByName", text: "countBy", stripped: "Name", kind: KindCount, style: SingleAny},
		{name: "custom", custom: "fetchBy", method: "fetchByName", text: "fetchBy", stripped: "Name"},
		{name: "custom delete spelling", custom: "DeleteBy", method: "DeleteByName", text: "DeleteBy", stripped: "Name", kind: KindDelete},
		{name: "custom falls back to known", custom: "fetchBy", method: "countByName", text: "countBy", stripped: "Name", kind: KindCount, style: SingleAny},
		{name: "unknown", method: "lookupName", text: "", stripped: "lookupName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePrefix(tt.custom, tt.method)
			assert.Equal(t, tt.text, p.Text())
			assert.Equal(t, tt.stripped, p.Strip(tt.method))
			assert.Equal(t, tt.kind, p.Kind())
			assert.Equal(t, tt.style, p.SingleResult())
			assert.Equal(t, tt.maxResults, p.MaxResults())
			assert.Equal(t, tt.custom != "" && tt.text == tt.custom, p.Custom())
		})
	}
}

func TestKindAndStyleNames(t *testing.T) {
	assert.Equal(t, "select", KindSelect.String())
	assert.Equal(t, "count", KindCount.String())
	assert.Equal(t, "delete", KindDelete.String())
	assert.Equal(t, "strict", SingleStrict.String())
	assert.Equal(t, "optional", SingleOptional.String())
	assert.Equal(t, "any", SingleAny.String())

	text, err := KindDelete.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "delete", string(text))
}
