package app

import (
	"testing"

	"github.com/sage-x-project/jstp/jstperr"
	"github.com/sage-x-project/jstp/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct{ id int64 }

func (f *fakeConn) ID() int64                    { return f.id }
func (f *fakeConn) SessionID() (string, bool)    { return "", false }
func (f *fakeConn) Emit(string, string, []record.Value) error { return nil }

func TestInterfaceMethodNamesExcludesUnderscore(t *testing.T) {
	iface := NewInterface()
	iface.Register("add", nil)
	iface.Register("_internal", nil)
	iface.Register("sub", nil)

	assert.Equal(t, []string{"add", "sub"}, iface.MethodNames())
}

func TestApplicationCallMethod(t *testing.T) {
	iface := NewInterface()
	iface.Register("add", func(conn Conn, args []record.Value, cb Callback) {
		a, _ := args[0].Int()
		b, _ := args[1].Int()
		cb(nil, record.Int(a+b))
	})
	a := New("calc", map[string]*Interface{"calc": iface})

	var gotErr error
	var gotResults []record.Value
	a.CallMethod(&fakeConn{id: 1}, "calc", "add", []record.Value{record.Int(2), record.Int(3)}, func(err error, results ...record.Value) {
		gotErr, gotResults = err, results
	})

	require.NoError(t, gotErr)
	require.Len(t, gotResults, 1)
	sum, _ := gotResults[0].Int()
	assert.Equal(t, int64(5), sum)
}

func TestApplicationCallUnknownInterface(t *testing.T) {
	a := New("calc", map[string]*Interface{})
	var gotErr error
	a.CallMethod(&fakeConn{}, "missing", "add", nil, func(err error, results ...record.Value) {
		gotErr = err
	})
	require.Error(t, gotErr)
	assert.Equal(t, jstperr.InterfaceNotFound, gotErr.(*jstperr.Error).Code)
}

func TestApplicationCallUnknownMethod(t *testing.T) {
	iface := NewInterface()
	a := New("calc", map[string]*Interface{"calc": iface})
	var gotErr error
	a.CallMethod(&fakeConn{}, "calc", "zap", nil, func(err error, results ...record.Value) {
		gotErr = err
	})
	require.Error(t, gotErr)
	assert.Equal(t, jstperr.MethodNotFound, gotErr.(*jstperr.Error).Code)
}

func TestGetMethods(t *testing.T) {
	iface := NewInterface()
	iface.Register("add", nil)
	iface.Register("_hidden", nil)
	a := New("calc", map[string]*Interface{"calc": iface})

	names, ok := a.GetMethods("calc")
	require.True(t, ok)
	assert.Equal(t, []string{"add"}, names)

	_, ok = a.GetMethods("missing")
	assert.False(t, ok)
}

func TestReservedApplication(t *testing.T) {
	a := NewReserved()
	assert.Equal(t, "jstp", a.Name())
	_, ok := a.Interface("anything")
	assert.False(t, ok)
}
