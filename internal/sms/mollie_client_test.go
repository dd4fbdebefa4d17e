package sms

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mollieHost = "http://www.mollie.nl"

// countingTransport records calls and never touches the network.
type countingTransport struct {
	calls  int
	status int
	body   []byte
	err    error
	last   *Request
}

func (c *countingTransport) Execute(_ context.Context, req *Request) (int, []byte, error) {
	c.calls++
	c.last = req
	return c.status, c.body, c.err
}

func TestMollieClient_Send(t *testing.T) {
	defer gock.Off()

	gock.New(mollieHost).
		Get("/xml/sms/").
		MatchParam("recipients", "0687654321,0612435687").
		MatchParam("username", "user").
		MatchParam("password", "secret").
		MatchParam("originator", "0612345678").
		MatchParam("message", "Hello").
		Reply(200).
		BodyString(string(reply(CodeSuccess, "Message successfully sent.")))

	client := NewMollieClient("user", "secret", WithOriginator("0612345678"))
	res, err := client.Send(context.Background(), SendRequest{
		Recipients: []string{"0687654321", "0612435687"},
		Message:    "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, CodeSuccess, res.Code)
	assert.True(t, gock.IsDone())
}

func TestMollieClient_SendScheduled(t *testing.T) {
	defer gock.Off()

	gock.New(mollieHost).
		Get("/xml/sms/").
		MatchParam("deliverydate", "20090202120200").
		MatchParam("reference", "scarymessage").
		Reply(200).
		BodyString(string(reply(CodeSuccess, "")))

	client := NewMollieClient("user", "secret")
	_, err := client.Send(context.Background(), SendRequest{
		Recipients:   []string{"0687654321"},
		Message:      "boo",
		DeliveryDate: "20090202120200",
		Reference:    "scarymessage",
	})

	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestMollieClient_SendServiceError(t *testing.T) {
	defer gock.Off()

	gock.New(mollieHost).
		Get("/xml/sms/").
		Reply(200).
		BodyString(string(reply(26, "Invalid originator")))

	client := NewMollieClient("user", "secret", WithOriginator("not a number"))
	_, err := client.Send(context.Background(), SendRequest{Recipients: []string{"0687654321"}, Message: "hi"})

	assert.ErrorIs(t, err, ErrInvalidOriginator)
}

func TestMollieClient_Cancel(t *testing.T) {
	defer gock.Off()

	gock.New(mollieHost).
		Get("/xml/sms_cancel/").
		MatchParam("reference", "scarymessage").
		Reply(200).
		BodyString(string(reply(40, "Message not found")))

	client := NewMollieClient("user", "secret")
	_, err := client.Cancel(context.Background(), "scarymessage")

	require.ErrorIs(t, err, ErrReferencedMessageNotFound)
	var smsErr *Error
	require.True(t, errors.As(err, &smsErr))
	assert.Equal(t, "Message not found", smsErr.Message)
}

func TestMollieClient_CancelCode22(t *testing.T) {
	defer gock.Off()

	gock.New(mollieHost).
		Get("/xml/sms_cancel/").
		Reply(200).
		BodyString(string(reply(22, "")))

	client := NewMollieClient("user", "secret")
	_, err := client.Cancel(context.Background(), "ref")

	assert.ErrorIs(t, err, ErrMissingReference)
	assert.False(t, errors.Is(err, ErrInvalidOriginator))
}

func TestMollieClient_TransportFailure(t *testing.T) {
	defer gock.Off()

	cause := errors.New("connection refused")
	gock.New(mollieHost).
		Get("/xml/sms/").
		ReplyError(cause)

	client := NewMollieClient("user", "secret")
	_, err := client.Send(context.Background(), SendRequest{Recipients: []string{"0687654321"}, Message: "hi"})

	require.ErrorIs(t, err, ErrGatewayUnreachable)
	var smsErr *Error
	require.True(t, errors.As(err, &smsErr))
	assert.Equal(t, CodeGatewayUnreachable, smsErr.Code)
	assert.Error(t, smsErr.Err)
}

func TestMollieClient_Non200(t *testing.T) {
	transport := &countingTransport{status: http.StatusServiceUnavailable, body: reply(CodeSuccess, "")}
	client := NewMollieClient("user", "secret", WithTransport(transport))

	_, err := client.Send(context.Background(), SendRequest{Recipients: []string{"0687654321"}, Message: "hi"})

	assert.ErrorIs(t, err, ErrGatewayUnreachable)
	assert.Equal(t, 1, transport.calls)
}

func TestMollieClient_LocalValidationSkipsNetwork(t *testing.T) {
	transport := &countingTransport{status: http.StatusOK, body: reply(CodeSuccess, "")}
	client := NewMollieClient("user", "secret", WithTransport(transport))
	ctx := context.Background()

	_, err := client.Send(ctx, SendRequest{Recipients: []string{"0687654321"}, Message: "hi", DeliveryDate: "20090202120200"})
	assert.ErrorIs(t, err, ErrScheduleMissingReference)

	_, err = client.Send(ctx, SendRequest{Recipients: []string{"0687654321"}, Message: "hi", DeliveryDate: "2009020212", Reference: "r"})
	assert.ErrorIs(t, err, ErrInvalidScheduleFormat)

	_, err = client.Send(ctx, SendRequest{Recipients: []string{"0687654321"}, Message: "hi", DeliveryDate: "2009020212020A", Reference: "r"})
	assert.ErrorIs(t, err, ErrInvalidScheduleFormat)

	_, err = client.Cancel(ctx, "")
	assert.ErrorIs(t, err, ErrMissingReference)

	_, err = client.Cancel(ctx, "   ")
	assert.ErrorIs(t, err, ErrMissingReference)

	assert.Zero(t, transport.calls)
}

func TestMollieClient_Setters(t *testing.T) {
	transport := &countingTransport{status: http.StatusOK, body: reply(CodeSuccess, "")}
	client := NewMollieClient("user", "secret", WithTransport(transport))

	client.SetOriginator("MyShop")
	client.SetGateway("https://gw.example.org/xml/")

	_, err := client.Send(context.Background(), SendRequest{Recipients: []string{"0687654321"}, Message: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "MyShop", transport.last.Get("originator"))
	assert.Equal(t, "https://gw.example.org/xml/", transport.last.Gateway)
	assert.Equal(t, "MyShop", client.Config().Originator)
}

func TestMollieClient_HTTPTransportAgainstServer(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write(reply(CodeSuccess, "ok"))
	}))
	defer srv.Close()

	client := NewMollieClient("user", "secret",
		WithGateway(srv.URL+"/xml/sms/"),
		WithHTTPClient(srv.Client()),
		WithTimeout(time.Second),
	)

	res, err := client.Send(context.Background(), SendRequest{Recipients: []string{"0687654321"}, Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
	assert.Equal(t, "recipients=0687654321&username=user&password=secret&message=hi", gotQuery)
}

func TestMollieClient_Health(t *testing.T) {
	ok := NewMollieClient("user", "secret", WithTransport(&countingTransport{status: http.StatusOK}))
	assert.NoError(t, ok.Health(context.Background()))

	down := NewMollieClient("user", "secret", WithTransport(&countingTransport{err: errors.New("dial tcp: timeout")}))
	assert.ErrorIs(t, down.Health(context.Background()), ErrGatewayUnreachable)

	broken := NewMollieClient("user", "secret", WithTransport(&countingTransport{status: http.StatusBadGateway}))
	assert.ErrorIs(t, broken.Health(context.Background()), ErrGatewayUnreachable)
}

func TestFormatDeliveryDate(t *testing.T) {
	at := time.Date(2009, 2, 2, 12, 2, 0, 0, time.UTC)
	assert.Equal(t, "20090202120200", FormatDeliveryDate(at))
}

func TestFormatDeliveryDateIn_SameInstantAnyLocation(t *testing.T) {
	utc := time.Date(2030, 1, 1, 11, 0, 0, 0, time.UTC)
	plusOne := utc.In(time.FixedZone("UTC+1", 3600))
	plusNine := utc.In(time.FixedZone("UTC+9", 9*3600))

	amsterdam := DefaultLocation()
	assert.Equal(t, "Europe/Amsterdam", amsterdam.String())

	for _, at := range []time.Time{utc, plusOne, plusNine} {
		assert.Equal(t, "20300101120000", FormatDeliveryDateIn(at, amsterdam))
		assert.Equal(t, "20300101110000", FormatDeliveryDateIn(at, time.UTC))
		assert.Equal(t, "20300101120000", FormatDeliveryDateIn(at, nil))
	}
}

func TestNewMollieClient_TimeoutBoundsDefaultTransport(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
		want time.Duration
	}{
		{name: "default", want: defaultTimeout},
		{name: "longer", opts: []Option{WithTimeout(30 * time.Second)}, want: 30 * time.Second},
		{name: "shorter", opts: []Option{WithTimeout(2 * time.Second)}, want: 2 * time.Second},
		{name: "ignored zero", opts: []Option{WithTimeout(0)}, want: defaultTimeout},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := NewMollieClient("user", "secret", tc.opts...)

			transport, ok := client.transport.(*HTTPTransport)
			require.True(t, ok)
			assert.Equal(t, tc.want, transport.HTTPClient.Timeout)
			assert.Equal(t, tc.want, client.timeout)
		})
	}
}

func TestNewMollieClient_ExplicitTransportKept(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	client := NewMollieClient("user", "secret", WithTimeout(5*time.Second), WithHTTPClient(hc))

	transport, ok := client.transport.(*HTTPTransport)
	require.True(t, ok)
	assert.Same(t, hc, transport.HTTPClient)
}

func TestWithLogger_TracesExchanges(t *testing.T) {
	var buf bytes.Buffer
	transport := &countingTransport{status: http.StatusOK, body: reply(CodeSuccess, "")}
	client := NewMollieClient("user", "secret",
		WithTransport(transport),
		WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)),
	)

	_, err := client.Cancel(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"op":"cancel"`)
	assert.Contains(t, buf.String(), "gateway request completed")
}
