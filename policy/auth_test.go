package policy

import (
	"testing"

	"github.com/sage-x-project/jstp/jstperr"
	"github.com/sage-x-project/jstp/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAnonymousAuthMintsOpaqueSessionID(t *testing.T) {
	user, sid, err := AnonymousAuth{}.StartSession(nil, nil, "anonymous", nil)
	require.NoError(t, err)
	assert.Empty(t, user)
	assert.NotEmpty(t, sid)

	_, sid2, err := AnonymousAuth{}.StartSession(nil, nil, "anonymous", nil)
	require.NoError(t, err)
	assert.NotEqual(t, sid, sid2)
}

func TestAnonymousAuthRejectsUnknownStrategy(t *testing.T) {
	_, _, err := AnonymousAuth{}.StartSession(nil, nil, "kerberos", nil)
	require.Error(t, err)
	assert.Equal(t, jstperr.AuthFailed, err.(*jstperr.Error).Code)
}

func loginAuthFixture(t *testing.T) LoginAuth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	return LoginAuth{
		Users:     map[string]string{"marcus": string(hash)},
		JWTSecret: []byte("test-secret"),
	}
}

func TestLoginAuthAcceptsValidCredentials(t *testing.T) {
	auth := loginAuthFixture(t)
	creds := []record.Value{record.String("marcus"), record.String("hunter2")}

	user, sid, err := auth.StartSession(nil, nil, "login", creds)
	require.NoError(t, err)
	assert.Equal(t, "marcus", user)
	require.NotEmpty(t, sid)

	subject, err := auth.VerifySession(sid)
	require.NoError(t, err)
	assert.Equal(t, "marcus", subject)
}

func TestLoginAuthRejectsBadPassword(t *testing.T) {
	auth := loginAuthFixture(t)
	creds := []record.Value{record.String("marcus"), record.String("wrong")}

	_, _, err := auth.StartSession(nil, nil, "login", creds)
	require.Error(t, err)
	assert.Equal(t, jstperr.AuthFailed, err.(*jstperr.Error).Code)
}

func TestLoginAuthRejectsUnknownUser(t *testing.T) {
	auth := loginAuthFixture(t)
	creds := []record.Value{record.String("ghost"), record.String("hunter2")}

	_, _, err := auth.StartSession(nil, nil, "login", creds)
	require.Error(t, err)
	assert.Equal(t, jstperr.AuthFailed, err.(*jstperr.Error).Code)
}

func TestLoginAuthRejectsMalformedCredentials(t *testing.T) {
	auth := loginAuthFixture(t)

	_, _, err := auth.StartSession(nil, nil, "login", nil)
	require.Error(t, err)
	assert.Equal(t, jstperr.AuthFailed, err.(*jstperr.Error).Code)

	creds := []record.Value{record.Int(1), record.Int(2)}
	_, _, err = auth.StartSession(nil, nil, "login", creds)
	require.Error(t, err)
	assert.Equal(t, jstperr.AuthFailed, err.(*jstperr.Error).Code)
}

func TestLoginAuthStillAdmitsAnonymous(t *testing.T) {
	auth := loginAuthFixture(t)

	user, sid, err := auth.StartSession(nil, nil, "anonymous", nil)
	require.NoError(t, err)
	assert.Empty(t, user)
	assert.NotEmpty(t, sid)
}

func TestLoginAuthRejectsUnknownStrategy(t *testing.T) {
	auth := loginAuthFixture(t)

	_, _, err := auth.StartSession(nil, nil, "kerberos", nil)
	require.Error(t, err)
	assert.Equal(t, jstperr.AuthFailed, err.(*jstperr.Error).Code)
}

func TestVerifySessionRejectsTamperedToken(t *testing.T) {
	auth := loginAuthFixture(t)
	creds := []record.Value{record.String("marcus"), record.String("hunter2")}
	_, sid, err := auth.StartSession(nil, nil, "login", creds)
	require.NoError(t, err)

	other := LoginAuth{JWTSecret: []byte("different-secret")}
	_, err = other.VerifySession(sid)
	assert.Error(t, err)
}
