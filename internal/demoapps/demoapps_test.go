package demoapps

import (
	"testing"

	"github.com/sage-x-project/jstp/jstperr"
	"github.com/sage-x-project/jstp/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id        int64
	sessionID string
}

func (f *fakeConn) ID() int64                 { return f.id }
func (f *fakeConn) SessionID() (string, bool) { return f.sessionID, f.sessionID != "" }
func (f *fakeConn) Emit(string, string, []record.Value) error {
	return nil
}

func callCalc(t *testing.T, method string, args ...record.Value) (error, []record.Value) {
	t.Helper()
	a := Calc()
	var gotErr error
	var gotResults []record.Value
	a.CallMethod(&fakeConn{id: 1}, "calc", method, args, func(err error, results ...record.Value) {
		gotErr, gotResults = err, results
	})
	return gotErr, gotResults
}

func TestCalcAdd(t *testing.T) {
	err, results := callCalc(t, "add", record.Int(2), record.Int(3))
	require.NoError(t, err)
	require.Len(t, results, 1)
	n, _ := results[0].Int()
	assert.Equal(t, int64(5), n)
}

func TestCalcSubMul(t *testing.T) {
	err, results := callCalc(t, "sub", record.Int(5), record.Int(3))
	require.NoError(t, err)
	n, _ := results[0].Int()
	assert.Equal(t, int64(2), n)

	err, results = callCalc(t, "mul", record.Int(5), record.Int(3))
	require.NoError(t, err)
	n, _ = results[0].Int()
	assert.Equal(t, int64(15), n)
}

func TestCalcWrongArity(t *testing.T) {
	err, _ := callCalc(t, "add", record.Int(2))
	require.Error(t, err)
	assert.Equal(t, jstperr.InvalidSignature, err.(*jstperr.Error).Code)
}

func TestCalcNonIntegerArgs(t *testing.T) {
	err, _ := callCalc(t, "add", record.String("x"), record.Int(1))
	require.Error(t, err)
	assert.Equal(t, jstperr.InvalidSignature, err.(*jstperr.Error).Code)
}

func TestCalcUnknownMethod(t *testing.T) {
	err, _ := callCalc(t, "zap", record.Int(1), record.Int(2))
	require.Error(t, err)
	assert.Equal(t, jstperr.MethodNotFound, err.(*jstperr.Error).Code)
}

func TestChatSendBroadcastsToOtherMembers(t *testing.T) {
	a := Chat(nil)

	var received []record.Value
	sender := &fakeConn{id: 1, sessionID: "alice"}
	peer := &fakeConnWithEmit{fakeConn: fakeConn{id: 2, sessionID: "bob"}, onEmit: func(iface, event string, args []record.Value) {
		received = args
	}}

	// peer must have sent at least once to be tracked as a room member.
	a.CallMethod(peer, "chat", "send", []record.Value{record.String("hi from bob")}, func(error, ...record.Value) {})

	var sendErr error
	a.CallMethod(sender, "chat", "send", []record.Value{record.String("hello")}, func(err error, _ ...record.Value) {
		sendErr = err
	})
	require.NoError(t, sendErr)
	require.Len(t, received, 2)
	user, _ := received[0].String()
	body, _ := received[1].String()
	assert.Equal(t, "alice", user)
	assert.Equal(t, "hello", body)
}

func TestChatHistoryWithoutStoreReturnsEmpty(t *testing.T) {
	a := Chat(nil)
	var results []record.Value
	a.CallMethod(&fakeConn{id: 1}, "chat", "history", nil, func(err error, rs ...record.Value) {
		results = rs
	})
	require.Len(t, results, 1)
	elems, ok := results[0].Array()
	require.True(t, ok)
	assert.Empty(t, elems)
}

type fakeConnWithEmit struct {
	fakeConn
	onEmit func(iface, event string, args []record.Value)
}

func (f *fakeConnWithEmit) Emit(iface, event string, args []record.Value) error {
	if f.onEmit != nil {
		f.onEmit(iface, event, args)
	}
	return nil
}
