package sms

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reply(code int, message string) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" ?>
<response>
    <item type="sms">
        <recipients>1</recipients>
        <success>%t</success>
        <resultcode>%d</resultcode>
        <resultmessage>%s</resultmessage>
    </item>
</response>`, code == CodeSuccess, code, message))
}

func TestInterpret_SendTable(t *testing.T) {
	want := map[int]error{
		20: ErrNoUsername,
		21: ErrNoPassword,
		22: ErrInvalidOriginator,
		23: ErrRecipientMissing,
		24: ErrMessageMissing,
		25: ErrInvalidRecipient,
		26: ErrInvalidOriginator,
		27: ErrInvalidMessage,
		29: ErrInvalidParameter,
		30: ErrAuthenticationFailed,
		31: ErrInsufficientCredits,
		40: ErrUnknownService,
		98: ErrGatewayUnreachable,
		99: ErrUnknownService,
	}

	for code, sentinel := range want {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			res, err := Interpreter{}.Interpret(OpSend, http.StatusOK, reply(code, "nope"))
			assert.Nil(t, res)
			require.ErrorIs(t, err, sentinel)

			var smsErr *Error
			require.True(t, errors.As(err, &smsErr))
			assert.Equal(t, code, smsErr.Code)
			assert.Equal(t, "nope", smsErr.Message)
			assert.Equal(t, OpSend, smsErr.Op)
		})
	}
}

func TestInterpret_CancelTable(t *testing.T) {
	want := map[int]error{
		20: ErrNoUsername,
		21: ErrNoPassword,
		22: ErrMissingReference,
		23: ErrUnknownService,
		30: ErrAuthenticationFailed,
		31: ErrUnknownService,
		40: ErrReferencedMessageNotFound,
		98: ErrGatewayUnreachable,
		99: ErrUnknownService,
	}

	for code, sentinel := range want {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			_, err := Interpreter{}.Interpret(OpCancel, http.StatusOK, reply(code, ""))
			require.ErrorIs(t, err, sentinel)

			var smsErr *Error
			require.True(t, errors.As(err, &smsErr))
			assert.Equal(t, code, smsErr.Code)
			assert.Equal(t, OpCancel, smsErr.Op)
		})
	}
}

func TestInterpret_Success(t *testing.T) {
	for _, op := range []Operation{OpSend, OpCancel} {
		res, err := Interpreter{}.Interpret(op, http.StatusOK, reply(CodeSuccess, "Message successfully sent."))
		require.NoError(t, err)
		assert.Equal(t, CodeSuccess, res.Code)
		assert.True(t, res.Success)
		assert.Equal(t, "Message successfully sent.", res.Message)
		assert.Contains(t, res.Raw, "<resultcode>10</resultcode>")
	}
}

func TestInterpret_BareResultCode(t *testing.T) {
	res, err := Interpreter{}.Interpret(OpSend, http.StatusOK, []byte("<response><resultcode>10</resultcode></response>"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Message)
}

func TestInterpret_UnknownCodeKeepsRawCode(t *testing.T) {
	for _, op := range []Operation{OpSend, OpCancel} {
		_, err := Interpreter{}.Interpret(op, http.StatusOK, reply(77, ""))

		var smsErr *Error
		require.True(t, errors.As(err, &smsErr))
		assert.Equal(t, KindUnknownService, smsErr.Kind)
		assert.Equal(t, 77, smsErr.Code)
	}
}

func TestInterpret_Non200IgnoresBody(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusNotFound, http.StatusCreated} {
		_, err := Interpreter{}.Interpret(OpSend, status, reply(CodeSuccess, ""))

		var smsErr *Error
		require.True(t, errors.As(err, &smsErr), "status %d", status)
		assert.Equal(t, KindGatewayUnreachable, smsErr.Kind)
		assert.Equal(t, CodeGatewayUnreachable, smsErr.Code)
	}
}

func TestInterpret_MissingOrBadResultCode(t *testing.T) {
	bodies := []string{
		"<response><success>false</success></response>",
		"<response><resultcode>abc</resultcode></response>",
		"",
	}
	for _, body := range bodies {
		_, err := Interpreter{}.Interpret(OpSend, http.StatusOK, []byte(body))
		assert.ErrorIs(t, err, ErrUnknownService, "body %q", body)
	}
}

type fixedLookup map[string]string

func (f fixedLookup) FindText(_ []byte, tag string) (string, bool, error) {
	v, ok := f[tag]
	return v, ok, nil
}

func TestInterpret_CustomLookup(t *testing.T) {
	in := Interpreter{Lookup: fixedLookup{"resultcode": "31", "resultmessage": "No credits"}}

	_, err := in.Interpret(OpSend, http.StatusOK, nil)

	var smsErr *Error
	require.True(t, errors.As(err, &smsErr))
	assert.Equal(t, KindInsufficientCredits, smsErr.Kind)
	assert.Equal(t, "No credits", smsErr.Message)
}

func TestKindByCode(t *testing.T) {
	assert.Equal(t, KindInvalidOriginator, KindBySendCode(22))
	assert.Equal(t, KindMissingReference, KindByCancelCode(22))
	assert.Equal(t, KindReferencedMessageNotFound, KindByCode(OpCancel, 40))
	assert.Equal(t, KindUnknownService, KindByCode(OpSend, 40))
}

func TestErrorString(t *testing.T) {
	err := &Error{Op: OpSend, Kind: KindInsufficientCredits, Code: 31, Message: "No credits"}
	assert.Equal(t, "mollie send: insufficient credits (code 31): No credits", err.Error())

	assert.False(t, errors.Is(err, ErrInvalidMessage))
	assert.False(t, errors.Is(err, errors.New("insufficient credits")))
}
