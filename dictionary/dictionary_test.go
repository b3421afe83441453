package dictionary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JeffersonLab/evio-sub004/dictionary"
)

func TestResolveTagOnly(t *testing.T) {
	l := dictionary.New([]dictionary.Entry{
		{Tag: 10, Name: "EVENT10"},
	})

	name, ok := l.Resolve(10, 5)
	assert.True(t, ok)
	assert.Equal(t, "EVENT10", name)

	_, ok = l.Resolve(11, 5)
	assert.False(t, ok)
}

func TestResolveTagAndNumPrefersMostSpecific(t *testing.T) {
	l := dictionary.New([]dictionary.Entry{
		{Tag: 10, Name: "ANY_NUM"},
		{Tag: 10, Num: 2, HasNum: true, Name: "NUM2"},
	})

	name, ok := l.Resolve(10, 2)
	assert.True(t, ok)
	assert.Equal(t, "NUM2", name)

	name, ok = l.Resolve(10, 3)
	assert.True(t, ok)
	assert.Equal(t, "ANY_NUM", name)
}

func TestResolveTagRange(t *testing.T) {
	l := dictionary.New([]dictionary.Entry{
		{Tag: 100, TagEnd: 200, Name: "RANGE"},
	})

	name, ok := l.Resolve(150, 0)
	assert.True(t, ok)
	assert.Equal(t, "RANGE", name)

	_, ok = l.Resolve(201, 0)
	assert.False(t, ok)
}

func TestResolveRangeLosesToExactTag(t *testing.T) {
	l := dictionary.New([]dictionary.Entry{
		{Tag: 100, TagEnd: 200, Name: "RANGE"},
		{Tag: 150, Name: "EXACT"},
	})

	name, ok := l.Resolve(150, 0)
	assert.True(t, ok)
	assert.Equal(t, "EXACT", name)
}

func TestLen(t *testing.T) {
	l := dictionary.New([]dictionary.Entry{{Tag: 1, Name: "A"}, {Tag: 2, Name: "B"}})
	assert.Equal(t, 2, l.Len())
}
