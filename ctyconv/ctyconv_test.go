package ctyconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/calumari/qstree"
)

func TestFromValue(t *testing.T) {
	t.Run("parsed tree", func(t *testing.T) {
		tree, err := qstree.Parse("id=foo&dog[0].name=lucy&dog[2]=dexter")
		require.NoError(t, err)

		got, err := FromValue(tree)
		require.NoError(t, err)
		require.True(t, got.Type().IsObjectType())
		assert.Equal(t, cty.StringVal("foo"), got.GetAttr("id"))

		dog := got.GetAttr("dog")
		require.True(t, dog.Type().IsTupleType())
		require.Equal(t, 3, dog.LengthInt())
		assert.Equal(t, cty.StringVal("lucy"), dog.Index(cty.NumberIntVal(0)).GetAttr("name"))
		assert.True(t, dog.Index(cty.NumberIntVal(1)).IsNull())
		assert.Equal(t, cty.StringVal("dexter"), dog.Index(cty.NumberIntVal(2)))
	})

	t.Run("empty containers", func(t *testing.T) {
		got, err := FromValue(qstree.NewObject())
		require.NoError(t, err)
		assert.Equal(t, cty.EmptyObjectVal, got)

		got, err = FromValue(qstree.NewList())
		require.NoError(t, err)
		assert.Equal(t, cty.EmptyTupleVal, got)
	})

	t.Run("gap is dynamic null", func(t *testing.T) {
		got, err := FromValue(qstree.Gap{})
		require.NoError(t, err)
		assert.True(t, got.IsNull())
		assert.Equal(t, cty.DynamicPseudoType, got.Type())
	})

	t.Run("keys equal after normalization collide", func(t *testing.T) {
		// precomposed é and e followed by a combining acute accent
		tree, err := qstree.Parse("%C3%A9=1&e%CC%81=2")
		require.NoError(t, err)
		require.Equal(t, 2, tree.Len())

		_, err = FromValue(tree)
		require.ErrorIs(t, err, ErrKeyCollision)
	})

	t.Run("nested collision names the parent", func(t *testing.T) {
		tree, err := qstree.Parse("x.%C3%A9=1&x.e%CC%81=2")
		require.NoError(t, err)

		_, err = FromValue(tree)
		require.ErrorIs(t, err, ErrKeyCollision)
		assert.Contains(t, err.Error(), `attribute "x"`)
	})

	t.Run("decomposed key alone is normalized", func(t *testing.T) {
		tree, err := qstree.Parse("e%CC%81=1")
		require.NoError(t, err)

		got, err := FromValue(tree)
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("1"), got.GetAttr("\u00e9"))
	})
}

func TestToValue(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		tree, err := qstree.Parse("a=1&b[0]=x&b[2].c=y")
		require.NoError(t, err)

		val, err := FromValue(tree)
		require.NoError(t, err)
		back, err := ToValue(val)
		require.NoError(t, err)
		assert.True(t, qstree.Equal(tree, back))
	})

	t.Run("primitives become scalars", func(t *testing.T) {
		got, err := ToValue(cty.TupleVal([]cty.Value{
			cty.NumberIntVal(42),
			cty.NumberFloatVal(1.5),
			cty.True,
			cty.StringVal("s"),
			cty.NullVal(cty.String),
		}))
		require.NoError(t, err)
		want := qstree.NewList(
			qstree.Scalar("42"),
			qstree.Scalar("1.5"),
			qstree.Scalar("true"),
			qstree.Scalar("s"),
			qstree.Gap{},
		)
		assert.True(t, qstree.Equal(want, got))
	})

	t.Run("map keys sorted", func(t *testing.T) {
		got, err := ToValue(cty.MapVal(map[string]cty.Value{
			"b": cty.StringVal("2"),
			"a": cty.StringVal("1"),
		}))
		require.NoError(t, err)
		obj, ok := got.(*qstree.Object)
		require.True(t, ok, "expected *qstree.Object, got %T", got)
		assert.Equal(t, []string{"a", "b"}, obj.Keys())
	})

	t.Run("list and set", func(t *testing.T) {
		got, err := ToValue(cty.ListVal([]cty.Value{cty.StringVal("x")}))
		require.NoError(t, err)
		assert.True(t, qstree.Equal(qstree.NewList(qstree.Scalar("x")), got))

		got, err = ToValue(cty.SetVal([]cty.Value{cty.StringVal("y")}))
		require.NoError(t, err)
		assert.True(t, qstree.Equal(qstree.NewList(qstree.Scalar("y")), got))
	})

	t.Run("unknown rejected", func(t *testing.T) {
		_, err := ToValue(cty.ObjectVal(map[string]cty.Value{"a": cty.UnknownVal(cty.String)}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `attribute "a"`)
	})
}
