package vortexio

import (
	"bytes"
	"testing"

	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/dtype"
)

func scalarAtInt(t *testing.T, a array.Array, i int) int64 {
	t.Helper()
	s, err := array.ScalarAt(a, i)
	if err != nil {
		t.Fatalf("ScalarAt(%d): %v", i, err)
	}
	if s.IsNull() {
		t.Fatalf("ScalarAt(%d): unexpected null", i)
	}
	return s.Int()
}

func roundTrip(t *testing.T, a array.Array) array.Array {
	t.Helper()
	var buf bytes.Buffer
	id, err := WriteMessage(&buf, a)
	if err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if id == "" {
		t.Fatalf("WriteMessage: expected a non-empty stream id")
	}
	got, gotID, ok, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if !ok {
		t.Fatalf("ReadMessage: unexpected EOS")
	}
	if gotID != id {
		t.Fatalf("stream id mismatch: wrote %q read %q", id, gotID)
	}
	if got.Len() != a.Len() {
		t.Fatalf("length mismatch: got %d want %d", got.Len(), a.Len())
	}
	if !got.DType().Equal(a.DType()) {
		t.Fatalf("dtype mismatch: got %v want %v", got.DType(), a.DType())
	}
	return got
}

func TestMessageRoundTripNull(t *testing.T) {
	a := array.NewNull(5)
	got := roundTrip(t, a)
	if got.Len() != 5 {
		t.Fatalf("got len %d", got.Len())
	}
}

func TestMessageRoundTripBool(t *testing.T) {
	a := array.NewBool([]bool{true, false, true, true}, array.NewAllValid())
	got := roundTrip(t, a)
	for i := 0; i < a.Len(); i++ {
		want, err := array.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		have, err := array.ScalarAt(got, i)
		if err != nil {
			t.Fatal(err)
		}
		if have.Bool() != want.Bool() {
			t.Fatalf("index %d: got %v want %v", i, have.Bool(), want.Bool())
		}
	}
}

func TestMessageRoundTripPrimitiveWithNulls(t *testing.T) {
	mask := []bool{true, false, true, true, false}
	a := array.NewPrimitive(dtype.I64, []uint64{
		uint64(1), uint64(0), uint64(3), uint64(4), uint64(0),
	}, array.NewValidityArray(array.NewBool(mask, array.NewNonNullable())))

	got := roundTrip(t, a)
	for i := 0; i < a.Len(); i++ {
		if got.Validity().IsValid(i) != mask[i] {
			t.Fatalf("index %d: validity got %v want %v", i, got.Validity().IsValid(i), mask[i])
		}
		if mask[i] {
			if scalarAtInt(t, got, i) != scalarAtInt(t, a, i) {
				t.Fatalf("index %d: value mismatch", i)
			}
		}
	}
}

func TestMessageRoundTripVarBin(t *testing.T) {
	dt := dtype.Utf8(true)
	values := [][]byte{[]byte("hello"), nil, []byte("world"), []byte("")}
	mask := []bool{true, false, true, true}
	a := array.NewVarBin(dt, values, array.NewValidityArray(array.NewBool(mask, array.NewNonNullable())))
	got := roundTrip(t, a)
	for i, want := range values {
		if !mask[i] {
			if got.Validity().IsValid(i) {
				t.Fatalf("index %d: expected invalid", i)
			}
			continue
		}
		s, err := array.ScalarAt(got, i)
		if err != nil {
			t.Fatal(err)
		}
		if string(s.Bytes()) != string(want) {
			t.Fatalf("index %d: got %q want %q", i, s.Bytes(), want)
		}
	}
}

func TestMessageRoundTripStruct(t *testing.T) {
	idt := dtype.Primitive(dtype.I64, false)
	sdt := dtype.Struct([]dtype.Field{
		{Name: "a", Type: idt},
		{Name: "b", Type: dtype.Utf8(false)},
	}, true)

	children := []array.Array{
		array.NewI64([]int64{1, 2, 3}),
		array.NewVarBin(dtype.Utf8(false), [][]byte{[]byte("x"), []byte("y"), []byte("z")}, array.NewNonNullable()),
	}
	structMask := []bool{true, true, false}
	st, err := array.NewStruct(sdt, children, array.NewValidityArray(array.NewBool(structMask, array.NewNonNullable())))
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	got := roundTrip(t, st)
	for i := range structMask {
		if got.Validity().IsValid(i) != structMask[i] {
			t.Fatalf("index %d: validity mismatch", i)
		}
	}
	if len(got.Children()) != 2 {
		t.Fatalf("got %d children, want 2", len(got.Children()))
	}
	for i := 0; i < 3; i++ {
		if scalarAtInt(t, got.Children()[0], i) != int64(i+1) {
			t.Fatalf("field a index %d mismatch", i)
		}
	}
}

func TestMessageRoundTripList(t *testing.T) {
	elemDT := dtype.Primitive(dtype.I64, false)
	listDT := dtype.List(elemDT, true)
	values := array.NewI64([]int64{10, 20, 30, 40, 50})
	offsets := []int{0, 2, 2, 5}
	mask := []bool{true, false, true}
	l := array.NewList(listDT, offsets, values, array.NewValidityArray(array.NewBool(mask, array.NewNonNullable())))

	got := roundTrip(t, l)
	if got.Len() != 3 {
		t.Fatalf("got len %d want 3", got.Len())
	}
	for i, want := range mask {
		if got.Validity().IsValid(i) != want {
			t.Fatalf("index %d: validity mismatch", i)
		}
	}
}

func TestMessageRoundTripChunked(t *testing.T) {
	dt := dtype.Primitive(dtype.I64, false)
	chunks := []array.Array{
		array.NewI64([]int64{1, 2, 3}),
		array.NewI64([]int64{4, 5}),
	}
	c := array.NewChunked(dt, chunks)
	got := roundTrip(t, c)
	for i := 0; i < 5; i++ {
		if scalarAtInt(t, got, i) != int64(i+1) {
			t.Fatalf("index %d mismatch", i)
		}
	}
}

func TestMessageMultipleThenEOS(t *testing.T) {
	var buf bytes.Buffer
	a := array.NewI64([]int64{1, 2, 3})
	b := array.NewI64([]int64{4, 5})
	id1, err := WriteMessage(&buf, a)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := WriteMessage(&buf, b)
	if err != nil {
		t.Fatal(err)
	}
	if id1 == id2 {
		t.Fatalf("expected distinct stream ids, got %q twice", id1)
	}
	if err := WriteEOS(&buf); err != nil {
		t.Fatal(err)
	}

	got1, gotID1, ok, err := ReadMessage(&buf)
	if err != nil || !ok {
		t.Fatalf("first read: ok=%v err=%v", ok, err)
	}
	if got1.Len() != 3 {
		t.Fatalf("got len %d want 3", got1.Len())
	}
	if gotID1 != id1 {
		t.Fatalf("stream id mismatch: wrote %q read %q", id1, gotID1)
	}
	got2, gotID2, ok, err := ReadMessage(&buf)
	if err != nil || !ok {
		t.Fatalf("second read: ok=%v err=%v", ok, err)
	}
	if got2.Len() != 2 {
		t.Fatalf("got len %d want 2", got2.Len())
	}
	if gotID2 != id2 {
		t.Fatalf("stream id mismatch: wrote %q read %q", id2, gotID2)
	}
	_, _, ok, err = ReadMessage(&buf)
	if err != nil {
		t.Fatalf("eos read: %v", err)
	}
	if ok {
		t.Fatalf("expected EOS, got a message")
	}
}

func TestFooterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("some schema bytes and some layout bytes")
	f := Footer{SchemaOffset: 3, LayoutOffset: 20}
	if err := WriteFooter(&buf, f); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFooter(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if got != f {
		t.Fatalf("got %+v want %+v", got, f)
	}
}

func TestFooterTooSmall(t *testing.T) {
	_, err := ReadFooter(bytes.NewReader([]byte("short")), 5)
	if err == nil {
		t.Fatalf("expected error for too-small file")
	}
}

func TestLayoutRoundTripFlat(t *testing.T) {
	var buf bytes.Buffer
	l := Layout{Kind: LayoutFlat, Offset: 128, Length: 4096}
	if err := WriteLayout(&buf, l); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLayout(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != l {
		t.Fatalf("got %+v want %+v", got, l)
	}
}

func TestLayoutRoundTripColumn(t *testing.T) {
	var buf bytes.Buffer
	l := Layout{
		Kind: LayoutColumn,
		Children: []Layout{
			{Kind: LayoutFlat, Offset: 0, Length: 10},
			{Kind: LayoutChunked, Children: []Layout{
				{Kind: LayoutFlat, Offset: 10, Length: 5},
				{Kind: LayoutFlat, Offset: 15, Length: 7},
			}},
		},
	}
	if err := WriteLayout(&buf, l); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLayout(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Children) != 2 || len(got.Children[1].Children) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Children[1].Children[1].Offset != 15 {
		t.Fatalf("nested offset mismatch: %+v", got)
	}
}

func testCodecRoundTrip(t *testing.T, id CodecID, data []byte) {
	t.Helper()
	c, err := LookupCodec(id)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := c.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := c.Decode(enc, len(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatalf("round trip mismatch: got %d bytes want %d bytes", len(dec), len(data))
	}
}

func TestCodecRoundTrip(t *testing.T) {
	repeated := bytes.Repeat([]byte("abcdefgh"), 200)
	random := make([]byte, 256)
	for i := range random {
		random[i] = byte(i * 37 % 251)
	}

	for _, id := range []CodecID{CodecNone, CodecLZ4, CodecXZ} {
		testCodecRoundTrip(t, id, repeated)
		testCodecRoundTrip(t, id, random)
		testCodecRoundTrip(t, id, nil)
	}
}

func TestLookupCodecUnknown(t *testing.T) {
	if _, err := LookupCodec(CodecID(200)); err == nil {
		t.Fatalf("expected error for unknown codec id")
	}
}

func TestFileBlockStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := (&FileFactory{Basepath: dir}).CreateStore("ns")

	w := store.WriteBlock("block-a")
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r := store.ReadBlock("block-a")
	buf := make([]byte, 7)
	if _, err := r.Read(buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "payload" {
		t.Fatalf("got %q", buf)
	}
	r.Close()

	names, err := store.ListBlocks("")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "block-a" {
		t.Fatalf("got %v", names)
	}

	store.RemoveBlock("block-a")
	names, err = store.ListBlocks("")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty after remove, got %v", names)
	}
}

func TestFileBlockStoreMissing(t *testing.T) {
	dir := t.TempDir()
	store := (&FileFactory{Basepath: dir}).CreateStore("ns")
	r := store.ReadBlock("missing")
	buf := make([]byte, 1)
	if _, err := r.Read(buf); err == nil {
		t.Fatalf("expected error reading missing block")
	}
}
