package qstree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddresses(t *testing.T) {
	tests := []struct {
		in   string
		want []address
	}{
		{"dog[0].name", []address{
			{kind: addrName, label: "dog", index: -1, pos: 0},
			{kind: addrIndex, label: "0", index: 0, pos: 4},
			{kind: addrName, label: "name", index: -1, pos: 7},
		}},
		{"a[0][]", []address{
			{kind: addrName, label: "a", index: -1, pos: 0},
			{kind: addrIndex, label: "0", index: 0, pos: 2},
			{kind: addrPush, label: "", index: -1, pos: 5},
		}},
		{"a.b[c]", []address{
			{kind: addrName, label: "a", index: -1, pos: 0},
			{kind: addrName, label: "b", index: -1, pos: 2},
			{kind: addrName, label: "c", index: -1, pos: 4},
		}},
		{"[0]", []address{
			{kind: addrName, label: "", index: -1, pos: 0},
			{kind: addrIndex, label: "0", index: 0, pos: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			toks, err := Tokenize(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, addresses(toks))
		})
	}
}

func TestContainerFor(t *testing.T) {
	require.Equal(t, KindObject, containerFor(address{kind: addrName}).Kind())
	require.Equal(t, KindList, containerFor(address{kind: addrIndex}).Kind())
	require.Equal(t, KindList, containerFor(address{kind: addrPush}).Kind())
}

func TestBuilderKeepsRootShape(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)
	got, err := p.Build([]Pair{{Key: "[0]", Value: "x"}, {Key: "[]", Value: "y"}})
	require.NoError(t, err)
	require.Equal(t, `{"":["x","y"]}`, mustJSON(t, got))
}
