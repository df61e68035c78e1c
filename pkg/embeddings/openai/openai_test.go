package openai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/homeward-labs/homeward/pkg/embeddings"
	"github.com/homeward-labs/homeward/pkg/embeddings/openai"
)

var _ = Describe("Embedder", func() {
	var (
		ctx    context.Context
		server *httptest.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	newEmbedder := func(handler http.HandlerFunc) *openai.Embedder {
		server = httptest.NewServer(handler)
		embedder, err := openai.NewEmbedder(openai.EmbedderConfig{
			BaseURL: server.URL,
			Model:   "test-embedding",
			APIKey:  "test-key",
		})
		Expect(err).NotTo(HaveOccurred())
		return embedder
	}

	It("sends the text and returns the embedding", func() {
		var received map[string]any
		embedder := newEmbedder(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/v1/embeddings"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer test-key"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())

			fmt.Fprint(w, `{"data":[{"embedding":[0.1,0.2,0.3]}]}`)
		})

		vector, err := embedder.Embed(ctx, "a calm cat")
		Expect(err).NotTo(HaveOccurred())
		Expect(vector).To(Equal([]float32{0.1, 0.2, 0.3}))
		Expect(received["input"]).To(Equal("a calm cat"))
		Expect(received["model"]).To(Equal("test-embedding"))
	})

	It("wraps non-200 responses as embedding errors", func() {
		embedder := newEmbedder(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusBadRequest)
		})

		_, err := embedder.Embed(ctx, "text")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("treats an empty data list as an embedding error", func() {
		embedder := newEmbedder(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"data":[]}`)
		})

		_, err := embedder.Embed(ctx, "text")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})
})
