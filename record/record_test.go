package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind Kind
	}{
		{"null", "null", KindNull},
		{"true", "true", KindBool},
		{"false", "false", KindBool},
		{"undefined", "undefined", KindHole},
		{"int", "42", KindInt},
		{"negative int", "-7", KindInt},
		{"float", "3.14", KindFloat},
		{"exponent", "1e10", KindFloat},
		{"hex", "0x1F", KindInt},
		{"negative hex", "-0xFF", KindInt},
		{"single-quoted string", "'hi'", KindString},
		{"double-quoted string", `"hi"`, KindString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestParseHexValue(t *testing.T) {
	v, err := Parse("0x1F")
	require.NoError(t, err)
	i, ok := v.Int()
	require.True(t, ok)
	assert.Equal(t, int64(31), i)
}

func TestParseStringEscapes(t *testing.T) {
	v, err := Parse(`'a\'b\\c\n\t\u{48}'`)
	require.NoError(t, err)
	s, ok := v.String()
	require.True(t, ok)
	assert.Equal(t, "a'b\\c\n\tH", s)
}

func TestParseArray(t *testing.T) {
	v, err := Parse("[1, 2, 3,]")
	require.NoError(t, err)
	arr, ok := v.Array()
	require.True(t, ok)
	require.Len(t, arr, 3)
	i, _ := arr[2].Int()
	assert.Equal(t, int64(3), i)
}

func TestParseArrayHoles(t *testing.T) {
	v, err := Parse("[,,3]")
	require.NoError(t, err)
	arr, ok := v.Array()
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.True(t, arr[0].IsHole())
	assert.True(t, arr[1].IsHole())
	i, _ := arr[2].Int()
	assert.Equal(t, int64(3), i)
}

func TestParseObject(t *testing.T) {
	v, err := Parse(`{foo: 1, 'bar-baz': 2, "quux": 3,}`)
	require.NoError(t, err)
	obj, ok := v.Object()
	require.True(t, ok)
	assert.Equal(t, []string{"foo", "bar-baz", "quux"}, obj.Keys())

	val, ok := obj.Get("bar-baz")
	require.True(t, ok)
	i, _ := val.Int()
	assert.Equal(t, int64(2), i)
}

func TestParseObjectUndefinedOmitsKey(t *testing.T) {
	v, err := Parse(`{a: 1, b: undefined}`)
	require.NoError(t, err)
	obj, _ := v.Object()
	_, ok := obj.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, obj.Keys())
}

func TestParseObjectDuplicateKeysKeepLast(t *testing.T) {
	v, err := Parse(`{a: 1, a: 2}`)
	require.NoError(t, err)
	obj, _ := v.Object()
	val, _ := obj.Get("a")
	i, _ := val.Int()
	assert.Equal(t, int64(2), i)
	assert.Equal(t, []string{"a"}, obj.Keys())
}

func TestParseSurroundingParens(t *testing.T) {
	v, err := Parse("({a: 1})")
	require.NoError(t, err)
	obj, ok := v.Object()
	require.True(t, ok)
	assert.Equal(t, 1, obj.Len())
}

func TestParseComments(t *testing.T) {
	v, err := Parse("{ // a comment\n a: 1, /* block */ b: 2 }")
	require.NoError(t, err)
	obj, _ := v.Object()
	assert.Equal(t, 2, obj.Len())
}

func TestParseNested(t *testing.T) {
	v, err := Parse(`{call: [1, 'calc'], add: [2, 3]}`)
	require.NoError(t, err)
	obj, ok := v.Object()
	require.True(t, ok)
	callVal, ok := obj.Get("call")
	require.True(t, ok)
	arr, ok := callVal.Array()
	require.True(t, ok)
	require.Len(t, arr, 2)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"{",
		"[1,2",
		"{a: }",
		"{a 1}",
		"nope",
		"'unterminated",
	}
	for _, in := range tests {
		_, err := Parse(in)
		assert.Error(t, err, "input %q should fail to parse", in)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr)
	}
}

func TestParseTimeout(t *testing.T) {
	big := "["
	for i := 0; i < 200000; i++ {
		big += "1,"
	}
	big += "1]"

	_, err := Parse(big, ParseOptions{Timeout: time.Nanosecond})
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ParseErrorTimeout, perr.Kind)
}

func TestStringifyScalars(t *testing.T) {
	assert.Equal(t, "null", Stringify(Null()))
	assert.Equal(t, "undefined", Stringify(Hole()))
	assert.Equal(t, "true", Stringify(Bool(true)))
	assert.Equal(t, "42", Stringify(Int(42)))
	assert.Equal(t, "'hi'", Stringify(String("hi")))
}

func TestStringifyIntegralFloatKeepsFloatIdentity(t *testing.T) {
	out := Stringify(Float(2))
	assert.Equal(t, "2.0", out)

	v, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind())
}

func TestStringifyStringEscaping(t *testing.T) {
	assert.Equal(t, `'a\'b\\c'`, Stringify(String(`a'b\c`)))
}

func TestStringifyArrayHoles(t *testing.T) {
	assert.Equal(t, "[,,3]", Stringify(Array(Hole(), Hole(), Int(3))))
}

func TestStringifyObjectKeyForms(t *testing.T) {
	obj := NewObject()
	obj.Set("foo", Int(1))
	obj.Set("not-bare", Int(2))
	got := Stringify(ObjectValue(obj))
	assert.Equal(t, "{foo:1,'not-bare':2}", got)
}

func TestStringifyObjectOmitsUndefined(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Int(1))
	obj.Set("b", Hole())
	assert.Equal(t, "{a:1}", Stringify(ObjectValue(obj)))
}

func TestRoundTripParseStringify(t *testing.T) {
	inputs := []string{
		"null",
		"true",
		"false",
		"42",
		"-7",
		"3.5",
		"'hi there'",
		"[1,2,3]",
		"{a:1,b:'x'}",
	}
	for _, in := range inputs {
		v, err := Parse(in)
		require.NoError(t, err)
		out := Stringify(v)
		v2, err := Parse(out)
		require.NoError(t, err)
		assert.Equal(t, Stringify(v2), out)
	}
}

func TestDateStringifyModes(t *testing.T) {
	tm := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := DateValue(tm)
	assert.Equal(t, "'2026-01-02T03:04:05Z'", Stringify(d, StringifyOptions{DateMode: DateModeRecord}))
	assert.Equal(t, "new Date('2026-01-02T03:04:05Z')", Stringify(d, StringifyOptions{DateMode: DateModeObject}))
}

func TestDecodeEncodePacketHandshake(t *testing.T) {
	v, err := Parse(`{handshake: [0, 'jstp']}`)
	require.NoError(t, err)
	p, err := DecodePacket(v)
	require.NoError(t, err)
	assert.Equal(t, PacketHandshake, p.Kind)
	assert.Equal(t, int64(0), p.ID)
	assert.Equal(t, "jstp", p.Target)
	assert.False(t, p.HasVerb)

	got := EncodePacket(p)
	assert.Equal(t, "{handshake:[0,'jstp']}", Stringify(got))
}

func TestDecodePacketCall(t *testing.T) {
	v, err := Parse(`{call: [1, 'calc'], add: [2, 3]}`)
	require.NoError(t, err)
	p, err := DecodePacket(v)
	require.NoError(t, err)
	assert.Equal(t, PacketCall, p.Kind)
	assert.Equal(t, "add", p.Verb)
	args, ok := p.Args.Array()
	require.True(t, ok)
	require.Len(t, args, 2)
}

func TestDecodePacketHeartbeat(t *testing.T) {
	v, err := Parse("{}")
	require.NoError(t, err)
	p, err := DecodePacket(v)
	require.NoError(t, err)
	assert.True(t, p.Heartbeat)

	assert.Equal(t, "{}", Stringify(EncodePacket(Packet{Heartbeat: true})))
}

func TestDecodePacketInvalid(t *testing.T) {
	v, err := Parse("[1,2]")
	require.NoError(t, err)
	_, err = DecodePacket(v)
	assert.Error(t, err)

	v2, err := Parse(`{foo: [1]}`)
	require.NoError(t, err)
	_, err = DecodePacket(v2)
	assert.Error(t, err)
}
