package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidngn/walletcard/api"
	"github.com/davidngn/walletcard/provider"
	"github.com/davidngn/walletcard/session"
)

const testAddress = "0x4838B106FCe9647Bdf1E7877BF73cE8B0BAD5f97"

// scriptedProvider answers the fixed request set the controller issues. It
// is intentionally simpler than the session package's fake: API tests only
// need a happy-path wallet.
type scriptedProvider struct {
	accounts []string
	chainID  string
	balance  string
}

func (p *scriptedProvider) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	switch method {
	case provider.MethodRequestAccounts, provider.MethodAccounts:
		*(result.(*[]string)) = p.accounts
	case provider.MethodChainID:
		*(result.(*string)) = p.chainID
	case provider.MethodGetBalance:
		*(result.(*string)) = p.balance
	case provider.MethodSwitchChain:
		p.chainID = params[0].(provider.SwitchChainParam).ChainID
	}
	return nil
}

func (p *scriptedProvider) On(event string, h provider.Handler) (remove func()) {
	return func() {}
}

type sessionBody struct {
	session.Session
	ChainName string `json:"chain_name"`
	Installed bool   `json:"installed"`
}

func newTestRouter(t *testing.T, p provider.Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctl := session.NewController(p, nil)
	return api.NewAPIService("127.0.0.1:0", ctl).Router()
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) sessionBody {
	t.Helper()
	var body sessionBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetSessionInitial(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{chainID: "0x1"})

	w := doRequest(t, router, http.MethodGet, "/v1/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeSession(t, w)
	assert.True(t, body.Installed)
	assert.False(t, body.IsConnected)
	assert.Empty(t, body.Address)
}

func TestGetInstalledWithoutProvider(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/v1/installed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"installed": false}`, w.Body.String())
}

func TestConnectEndpoint(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{
		accounts: []string{testAddress},
		chainID:  "0x1",
		balance:  "0xde0b6b3a7640000",
	})

	w := doRequest(t, router, http.MethodPost, "/v1/connect", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeSession(t, w)
	assert.True(t, body.IsConnected)
	assert.Equal(t, testAddress, body.Address)
	assert.Equal(t, "0x1", body.ChainID)
	assert.Equal(t, "mainnet", body.ChainName)
	assert.Equal(t, "1.0000", body.Balance)
}

func TestConnectEndpointWithoutProvider(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodPost, "/v1/connect", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeSession(t, w)
	assert.False(t, body.IsConnected)
	assert.Equal(t, session.MsgProviderNotInstalled, body.Error)
}

func TestDisconnectEndpoint(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{
		accounts: []string{testAddress},
		chainID:  "0x1",
		balance:  "0x0",
	})

	w := doRequest(t, router, http.MethodPost, "/v1/connect", "")
	require.True(t, decodeSession(t, w).IsConnected)

	w = doRequest(t, router, http.MethodPost, "/v1/disconnect", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeSession(t, w)
	assert.False(t, body.IsConnected)
	assert.Empty(t, body.Address)
}

func TestSwitchNetworkEndpointByName(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{
		accounts: []string{testAddress},
		chainID:  "0x1",
		balance:  "0x0",
	})
	doRequest(t, router, http.MethodPost, "/v1/connect", "")

	w := doRequest(t, router, http.MethodPost, "/v1/switch-network", `{"network": "bsc"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeSession(t, w)
	assert.Equal(t, "0x38", body.ChainID)
	assert.Equal(t, "bsc", body.ChainName)
}

func TestSwitchNetworkEndpointByChainID(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{
		accounts: []string{testAddress},
		chainID:  "0x1",
		balance:  "0x0",
	})
	doRequest(t, router, http.MethodPost, "/v1/connect", "")

	w := doRequest(t, router, http.MethodPost, "/v1/switch-network", `{"chain_id": "0x89"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeSession(t, w)
	assert.Equal(t, "0x89", body.ChainID)
	assert.Equal(t, "polygon", body.ChainName)
}

func TestSwitchNetworkEndpointUnknownName(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{chainID: "0x1"})

	w := doRequest(t, router, http.MethodPost, "/v1/switch-network", `{"network": "polygn"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error       string   `json:"error"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unknown network name", body.Error)
	assert.Contains(t, body.Suggestions, "polygon")
}

func TestSwitchNetworkEndpointMissingParams(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{chainID: "0x1"})

	w := doRequest(t, router, http.MethodPost, "/v1/switch-network", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/v1/switch-network", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
