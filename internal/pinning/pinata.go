package pinning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIURL     = "https://api.pinata.cloud"
	defaultGatewayURL = "https://gateway.pinata.cloud"
	maxErrorBody      = 4 << 10
)

// PinataOptions configures a PinataClient.
type PinataOptions struct {
	JWT        string
	APIURL     string
	GatewayURL string
	Timeout    time.Duration
}

// PinataClient talks to the Pinata REST API.
type PinataClient struct {
	jwt        string
	apiURL     string
	gatewayURL string
	httpClient *http.Client
}

var _ Pinner = (*PinataClient)(nil)

// NewPinataClient constructs a client; it fails when the JWT is empty.
func NewPinataClient(opts PinataOptions) (*PinataClient, error) {
	jwt := strings.TrimSpace(opts.JWT)
	if jwt == "" {
		return nil, ErrMissingCredentials
	}
	apiURL := strings.TrimRight(strings.TrimSpace(opts.APIURL), "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	gatewayURL := strings.TrimRight(strings.TrimSpace(opts.GatewayURL), "/")
	if gatewayURL == "" {
		gatewayURL = defaultGatewayURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PinataClient{
		jwt:        jwt,
		apiURL:     apiURL,
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Pin streams the file to pinFileToIPFS as the multipart field "file".
func (c *PinataClient) Pin(ctx context.Context, r io.Reader, fileName, contentType string) (PinResult, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writePinForm(mw, r, fileName, contentType))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/pinning/pinFileToIPFS", pr)
	if err != nil {
		return PinResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PinResult{}, fmt.Errorf("pinata pin: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PinResult{}, apiError("pin", resp)
	}

	var out PinResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return PinResult{}, fmt.Errorf("pinata pin response parse: %w", err)
	}
	if strings.TrimSpace(out.IpfsHash) == "" {
		return PinResult{}, ErrMissingHash
	}
	return out, nil
}

func writePinForm(mw *multipart.Writer, r io.Reader, fileName, contentType string) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(fileName)))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	meta, err := json.Marshal(PinMetadata{Name: fileName})
	if err != nil {
		return err
	}
	if err := mw.WriteField("pinataMetadata", string(meta)); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Unpin removes the pin; a 404 maps to ErrPinNotFound.
func (c *PinataClient) Unpin(ctx context.Context, cid string) error {
	if strings.TrimSpace(cid) == "" {
		return ErrPinNotFound
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.apiURL+"/pinning/unpin/"+url.PathEscape(cid), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pinata unpin: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrPinNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return apiError("unpin", resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// PinList queries data/pinList filtered by hashContains=cid.
func (c *PinataClient) PinList(ctx context.Context, cid string) (PinList, error) {
	q := url.Values{}
	q.Set("hashContains", cid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/data/pinList?"+q.Encode(), nil)
	if err != nil {
		return PinList{}, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PinList{}, fmt.Errorf("pinata pin list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PinList{}, apiError("pin list", resp)
	}
	var out PinList
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return PinList{}, fmt.Errorf("pinata pin list parse: %w", err)
	}
	if out.Rows == nil {
		out.Rows = []PinRow{}
	}
	return out, nil
}

// Fetch downloads pinned content through the gateway.
func (c *PinataClient) Fetch(ctx context.Context, cid string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FileURL(cid), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway fetch: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrPinNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		defer resp.Body.Close()
		return nil, apiError("fetch", resp)
	}
	return resp.Body, nil
}

// FileURL formats the public gateway URL for cid without any I/O.
func (c *PinataClient) FileURL(cid string) string {
	return c.gatewayURL + "/ipfs/" + cid
}

func (c *PinataClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.jwt)
}

func apiError(op string, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil && !errors.Is(err, io.EOF) {
		body = []byte(err.Error())
	}
	return &APIError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
