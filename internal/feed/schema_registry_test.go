package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnsureSchemaReusesIDForKnownSchema(t *testing.T) {
	registry := newFakeRegistry()
	server := httptest.NewServer(registry)
	defer server.Close()

	client := NewSchemaRegistryClient(server.URL, 5*time.Second)

	first, err := client.EnsureSchema(context.Background(), "roster_events-roster.participant_joined", participantJoinedSchema)
	require.NoError(t, err)

	second, err := client.EnsureSchema(context.Background(), "roster_events-roster.participant_joined", participantJoinedSchema)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Len(t, registry.registrations("roster_events-roster.participant_joined"), 1)
}

func TestEnsureSchemaRegistersNewSchemaUnderExistingSubject(t *testing.T) {
	registry := newFakeRegistry()
	server := httptest.NewServer(registry)
	defer server.Close()

	client := NewSchemaRegistryClient(server.URL, 5*time.Second)

	joined, err := client.EnsureSchema(context.Background(), "shared-subject", participantJoinedSchema)
	require.NoError(t, err)

	left, err := client.EnsureSchema(context.Background(), "shared-subject", participantLeftSchema)
	require.NoError(t, err)

	require.NotEqual(t, joined, left, "a second schema must not reuse the first schema's ID")
	require.Equal(t, []string{participantJoinedSchema, participantLeftSchema}, registry.registrations("shared-subject"))
}

func TestEnsureSchemaSurfacesRegistryErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "registry unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewSchemaRegistryClient(server.URL, 5*time.Second)

	_, err := client.EnsureSchema(context.Background(), "roster_events-roster.participant_joined", participantJoinedSchema)
	require.Error(t, err)
	require.Contains(t, err.Error(), "look up schema under roster_events-roster.participant_joined")
}

// fakeRegistry serves the two Confluent endpoints the client relies on:
// exact-schema lookup (POST /subjects/{subject}) and version registration
// (POST /subjects/{subject}/versions).
type fakeRegistry struct {
	mu       sync.Mutex
	nextID   int
	subjects map[string][]registeredSchema
}

type registeredSchema struct {
	id     int
	schema string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{nextID: 1, subjects: make(map[string][]registeredSchema)}
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Schema string `json:"schema"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	subject := strings.TrimPrefix(r.URL.Path, "/subjects/")
	if strings.HasSuffix(subject, "/versions") {
		subject = strings.TrimSuffix(subject, "/versions")
		if id, ok := f.find(subject, req.Schema); ok {
			writeSchemaID(w, id)
			return
		}
		id := f.nextID
		f.nextID++
		f.subjects[subject] = append(f.subjects[subject], registeredSchema{id: id, schema: req.Schema})
		writeSchemaID(w, id)
		return
	}

	if id, ok := f.find(subject, req.Schema); ok {
		writeSchemaID(w, id)
		return
	}
	http.Error(w, `{"error_code":40403,"message":"schema not found"}`, http.StatusNotFound)
}

func (f *fakeRegistry) find(subject, schema string) (int, bool) {
	for _, entry := range f.subjects[subject] {
		if entry.schema == schema {
			return entry.id, true
		}
	}
	return 0, false
}

func (f *fakeRegistry) registrations(subject string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.subjects[subject]))
	for _, entry := range f.subjects[subject] {
		out = append(out, entry.schema)
	}
	return out
}

func writeSchemaID(w http.ResponseWriter, id int) {
	w.Header().Set("Content-Type", "application/vnd.schemaregistry.v1+json")
	_ = json.NewEncoder(w).Encode(map[string]int{"id": id})
}
