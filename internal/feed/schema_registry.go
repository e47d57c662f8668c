package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SchemaRegistryClient resolves Confluent Schema Registry IDs for roster
// event schemas, registering them on first use.
type SchemaRegistryClient struct {
	baseURL string
	client  *http.Client
}

// NewSchemaRegistryClient constructs a SchemaRegistryClient.
func NewSchemaRegistryClient(baseURL string, timeout time.Duration) *SchemaRegistryClient {
	return &SchemaRegistryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type schemaRequest struct {
	SchemaType string `json:"schemaType"`
	Schema     string `json:"schema"`
}

// EnsureSchema returns the registry ID of the schema under subject,
// registering it when the registry does not hold it yet. The lookup matches
// the exact schema text, never just the subject's latest version, so
// subjects are safe to share between callers.
func (c *SchemaRegistryClient) EnsureSchema(ctx context.Context, subject, schema string) (int, error) {
	id, found, err := c.lookup(ctx, subject, schema)
	if err != nil {
		return 0, fmt.Errorf("look up schema under %s: %w", subject, err)
	}
	if found {
		return id, nil
	}

	id, err = c.register(ctx, subject, schema)
	if err != nil {
		return 0, fmt.Errorf("register schema under %s: %w", subject, err)
	}
	return id, nil
}

// lookup asks the registry whether this exact schema is already registered
// under the subject. POST /subjects/{subject} is the Confluent check call.
func (c *SchemaRegistryClient) lookup(ctx context.Context, subject, schema string) (int, bool, error) {
	resp, err := c.postSchema(ctx, c.baseURL+"/subjects/"+subject, schema)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, false, nil
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return 0, false, fmt.Errorf("registry responded %d: %s", resp.StatusCode, body)
	}

	id, err := decodeSchemaID(resp.Body)
	return id, err == nil, err
}

func (c *SchemaRegistryClient) register(ctx context.Context, subject, schema string) (int, error) {
	resp, err := c.postSchema(ctx, c.baseURL+"/subjects/"+subject+"/versions", schema)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("registry responded %d: %s", resp.StatusCode, body)
	}

	return decodeSchemaID(resp.Body)
}

func (c *SchemaRegistryClient) postSchema(ctx context.Context, url, schema string) (*http.Response, error) {
	body, err := json.Marshal(schemaRequest{SchemaType: "JSON", Schema: schema})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/vnd.schemaregistry.v1+json")

	return c.client.Do(req)
}

func decodeSchemaID(body io.Reader) (int, error) {
	var payload struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return 0, err
	}
	return payload.ID, nil
}
