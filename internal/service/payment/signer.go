package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"paygram/pkg/errno"
)

// Signer submits a token transfer to the settlement backend and returns the
// resulting transaction hash. Implementations do the actual signing and
// broadcasting; this service only orchestrates around them.
type Signer interface {
	Transfer(ctx context.Context, fromAddress, toAddress string, amount decimal.Decimal) (string, error)
}

// HTTPSigner calls a remote signing service over HTTP. The custody keys
// never enter this process.
type HTTPSigner struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSigner(baseURL string, timeout time.Duration) *HTTPSigner {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSigner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type transferResponse struct {
	TxHash string `json:"tx_hash"`
	Error  string `json:"error"`
}

func (s *HTTPSigner) Transfer(ctx context.Context, fromAddress, toAddress string, amount decimal.Decimal) (string, error) {
	body, err := json.Marshal(transferRequest{From: fromAddress, To: toAddress, Amount: amount.String()})
	if err != nil {
		return "", errno.InternalServerError.WithDetailf("marshal transfer request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transfer", bytes.NewReader(body))
	if err != nil {
		return "", errno.InternalServerError.WithDetailf("build transfer request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errno.ErrExternalService.WithDetailf("signer unreachable: %v", err)
	}
	defer resp.Body.Close()

	var out transferResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errno.ErrExternalService.WithDetailf("decode signer response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", errno.ErrExternalService.WithDetailf("signer rejected transfer: %s", msg)
	}
	if out.TxHash == "" {
		return "", errno.ErrExternalService.WithDetailf("signer returned no tx hash")
	}
	return out.TxHash, nil
}
