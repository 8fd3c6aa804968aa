package tag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgnbt/cgnbt/format"
	"github.com/cgnbt/cgnbt/tag"
)

func TestConstructorsAndAccessors(t *testing.T) {
	intTag := tag.NewInt(-42)
	v, ok := intTag.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(-42), v)
	_, ok = intTag.AsUint()
	assert.False(t, ok)

	uintTag := tag.NewUint(42)
	uv, ok := uintTag.AsUint()
	require.True(t, ok)
	assert.Equal(t, uint64(42), uv)

	boolTag := tag.NewBool(true)
	bv, ok := boolTag.AsBool()
	require.True(t, ok)
	assert.True(t, bv)

	hexTag := tag.NewHex(0xFF) // only low nibble kept
	hv, ok := hexTag.AsHex()
	require.True(t, ok)
	assert.Equal(t, uint8(0x0F), hv)

	floatTag := tag.NewFloat(1.5)
	fv, ok := floatTag.AsFloat()
	require.True(t, ok)
	assert.Equal(t, float32(1.5), fv)

	doubleTag := tag.NewDouble(2.5)
	dv, ok := doubleTag.AsDouble()
	require.True(t, ok)
	assert.Equal(t, 2.5, dv)

	rawTag := tag.NewRaw(0x7F)
	rv, ok := rawTag.AsRaw()
	require.True(t, ok)
	assert.Equal(t, byte(0x7F), rv)

	strTag := tag.NewString([]byte("hello"))
	sv, ok := strTag.AsString()
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), sv)
}

func TestNewObject_NilMapBecomesEmpty(t *testing.T) {
	obj := tag.NewObject(nil)
	m, ok := obj.AsObject()
	require.True(t, ok)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestNewString_CopiesInput(t *testing.T) {
	src := []byte("mutable")
	strTag := tag.NewString(src)
	src[0] = 'X'

	got, _ := strTag.AsString()
	assert.Equal(t, "mutable", string(got))
}

func TestTypedArrays(t *testing.T) {
	boolArr := tag.NewBoolArray([]bool{true, false, true})
	bv, ok := boolArr.AsBoolArray()
	require.True(t, ok)
	assert.Equal(t, []bool{true, false, true}, bv)

	hexArr := tag.NewHexArray([]uint8{0x0A, 0xFF})
	hv, ok := hexArr.AsHexArray()
	require.True(t, ok)
	assert.Equal(t, []uint8{0x0A, 0x0F}, hv)

	floatArr := tag.NewFloatArray([]float32{1, 2, 3})
	fv, ok := floatArr.AsFloatArray()
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, fv)

	doubleArr := tag.NewDoubleArray([]float64{1, 2, 3})
	dv, ok := doubleArr.AsDoubleArray()
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, dv)

	rawArr := tag.NewRawArray([]byte{1, 2, 3})
	rv, ok := rawArr.AsRawArray()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, rv)
}

func TestNewArray_TreeRecursive(t *testing.T) {
	elems := []tag.Tag{tag.NewString([]byte("a")), tag.NewString([]byte("b"))}
	arr := tag.NewArray(format.KindString, elems)

	got, elemKind, ok := arr.AsArray()
	require.True(t, ok)
	assert.Equal(t, format.KindString, elemKind)
	assert.Len(t, got, 2)
}

func TestClone_DeepCopiesObjectAndArray(t *testing.T) {
	inner := tag.NewObject(map[string]tag.Tag{"x": tag.NewInt(1)})
	arr := tag.NewArray(format.KindObject, []tag.Tag{inner})
	outer := tag.NewObject(map[string]tag.Tag{"arr": arr})

	cloned := outer.Clone()
	assert.True(t, outer.Equal(cloned))

	// Mutate the clone's nested map; the original must be unaffected.
	clonedMap, _ := cloned.AsObject()
	clonedArr, _, _ := clonedMap["arr"].AsArray()
	clonedInnerMap, _ := clonedArr[0].AsObject()
	clonedInnerMap["x"] = tag.NewInt(999)

	origMap, _ := outer.AsObject()
	origArr, _, _ := origMap["arr"].AsArray()
	origInnerMap, _ := origArr[0].AsObject()
	origVal, _ := origInnerMap["x"].AsInt()
	assert.Equal(t, int64(1), origVal, "cloned tree must not alias the original's storage")
}

func TestEqual_ObjectIsSetEquality(t *testing.T) {
	a := tag.NewObject(map[string]tag.Tag{"x": tag.NewInt(1), "y": tag.NewInt(2)})
	b := tag.NewObject(map[string]tag.Tag{"y": tag.NewInt(2), "x": tag.NewInt(1)})

	assert.True(t, a.Equal(b))
}

func TestEqual_ArrayIsSequenceEquality(t *testing.T) {
	a := tag.NewArray(format.KindIVarInt, []tag.Tag{tag.NewInt(1), tag.NewInt(2)})
	b := tag.NewArray(format.KindIVarInt, []tag.Tag{tag.NewInt(2), tag.NewInt(1)})

	assert.False(t, a.Equal(b), "array order matters")
}

func TestEqual_FloatBitwiseEquality(t *testing.T) {
	nan := tag.NewFloat(float32(nanValue()))
	assert.True(t, nan.Equal(nan), "bitwise equality treats identical NaN bits as equal")

	assert.False(t, tag.NewFloat(0.0).Equal(tag.NewFloat(float32(negZero()))))
}

func nanValue() float64 {
	var f float64
	return f / f
}

func negZero() float64 {
	// A constant -0.0 folds to +0 in Go; negating a variable yields -0.
	zero := 0.0
	return -zero
}

func TestEqual_DifferentKindsNeverEqual(t *testing.T) {
	assert.False(t, tag.NewInt(1).Equal(tag.NewUint(1)))
}

func TestString_ObjectSortedByKey(t *testing.T) {
	obj := tag.NewObject(map[string]tag.Tag{
		"zebra": tag.NewBool(true),
		"apple": tag.NewInt(1),
	})

	assert.Equal(t, `{"apple": 1, "zebra": true}`, obj.String())
}

func TestString_ScalarRenderings(t *testing.T) {
	assert.Equal(t, "-5", tag.NewInt(-5).String())
	assert.Equal(t, "5u", tag.NewUint(5).String())
	assert.Equal(t, "true", tag.NewBool(true).String())
	assert.Equal(t, "false", tag.NewBool(false).String())
	assert.Equal(t, "A", tag.NewHex(0xA).String())
	assert.Equal(t, `"hello"`, tag.NewString([]byte("hello")).String())
	assert.Equal(t, "7F", tag.NewRaw(0x7F).String())
}

func TestString_TypedArrayRendering(t *testing.T) {
	arr := tag.NewBoolArray([]bool{true, false})
	assert.Equal(t, "[true, false]", arr.String())

	hexArr := tag.NewHexArray([]uint8{0x1, 0xA})
	assert.Equal(t, "[1, A]", hexArr.String())
}

func TestFingerprint_OrderIndependentForObjects(t *testing.T) {
	a := tag.NewObject(map[string]tag.Tag{"x": tag.NewInt(1), "y": tag.NewInt(2)})
	b := tag.NewObject(map[string]tag.Tag{"y": tag.NewInt(2), "x": tag.NewInt(1)})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprint_DiffersOnContent(t *testing.T) {
	a := tag.NewObject(map[string]tag.Tag{"x": tag.NewInt(1)})
	b := tag.NewObject(map[string]tag.Tag{"x": tag.NewInt(2)})

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprint_Deterministic(t *testing.T) {
	tr := tag.NewObject(map[string]tag.Tag{
		"name":    tag.NewString([]byte("sensor")),
		"reading": tag.NewDouble(21.5),
	})

	assert.Equal(t, tr.Fingerprint(), tr.Clone().Fingerprint())
}
