package dtype

import "testing"

func TestPrimitiveEqual(t *testing.T) {
	a := Primitive(I64, true)
	b := Primitive(I64, true)
	if !a.Equal(b) {
		t.Fatalf("expected %v to equal %v", a, b)
	}
	c := Primitive(I64, false)
	if a.Equal(c) {
		t.Fatalf("nullable mismatch should not be equal")
	}
	d := Primitive(F64, true)
	if a.Equal(d) {
		t.Fatalf("ptype mismatch should not be equal")
	}
}

func TestStructEqualByFieldOrder(t *testing.T) {
	fields1 := []Field{{Name: "a", Type: Primitive(I64, false)}, {Name: "b", Type: Utf8(true)}}
	fields2 := []Field{{Name: "b", Type: Utf8(true)}, {Name: "a", Type: Primitive(I64, false)}}
	s1 := Struct(fields1, false)
	s2 := Struct(fields2, false)
	if s1.Equal(s2) {
		t.Fatalf("struct equality should be order-sensitive")
	}
	s3 := Struct(fields1, false)
	if !s1.Equal(s3) {
		t.Fatalf("identical field order should compare equal")
	}
}

func TestListEqualRecursesIntoElem(t *testing.T) {
	l1 := List(Primitive(I64, false), true)
	l2 := List(Primitive(I64, false), true)
	if !l1.Equal(l2) {
		t.Fatalf("expected lists over the same elem dtype to be equal")
	}
	l3 := List(Primitive(F64, false), true)
	if l1.Equal(l3) {
		t.Fatalf("lists over different elem dtypes must not be equal")
	}
}

func TestExtensionEqualComparesIDAndStorage(t *testing.T) {
	e1 := Extension("vortex.localdatetime", Primitive(I64, false), []byte("tz=UTC"))
	e2 := Extension("vortex.localdatetime", Primitive(I64, false), []byte("tz=UTC"))
	if !e1.Equal(e2) {
		t.Fatalf("expected identical extensions to be equal")
	}
	e3 := Extension("vortex.other", Primitive(I64, false), []byte("tz=UTC"))
	if e1.Equal(e3) {
		t.Fatalf("different extension ids must not be equal")
	}
}

func TestFieldLookup(t *testing.T) {
	dt := Struct([]Field{{Name: "a", Type: Bool(false)}, {Name: "b", Type: Utf8(false)}}, false)
	if ft, ok := dt.Field("b"); !ok || !ft.Equal(Utf8(false)) {
		t.Fatalf("expected to find field b, got %v ok=%v", ft, ok)
	}
	if _, ok := dt.Field("missing"); ok {
		t.Fatalf("expected missing field lookup to fail")
	}
}

func TestHashKeyDistinguishesNullable(t *testing.T) {
	a := Primitive(I64, true)
	b := Primitive(I64, false)
	if a.HashKey() == b.HashKey() {
		t.Fatalf("hash keys should differ on nullability: %q == %q", a.HashKey(), b.HashKey())
	}
}

func TestKindPredicates(t *testing.T) {
	if !Null().IsNull() {
		t.Fatalf("Null() should report IsNull")
	}
	if !Bool(false).IsBool() {
		t.Fatalf("Bool() should report IsBool")
	}
	if !Utf8(false).IsVarBin() || !Binary(false).IsVarBin() {
		t.Fatalf("Utf8/Binary should both report IsVarBin")
	}
	if Primitive(I64, false).IsVarBin() {
		t.Fatalf("Primitive should not report IsVarBin")
	}
}
