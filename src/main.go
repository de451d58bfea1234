package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"google.golang.org/api/iterator"

	"crosswarped.com/xwfill"
	"crosswarped.com/xwfill/internal"
)

type SolveFillRequest struct {
	Structure      string   `json:"structure"`
	Words          []string `json:"words"`
	WordScope      string   `json:"wordScope"`
	IncludeObscure bool     `json:"includeObscure"`
	ExcludedWords  []string `json:"excludedWords"`
	Workers        int      `json:"workers"`
}

type SolveFillResponse struct {
	Success bool   `json:"success"`
	Outcome string `json:"outcome,omitempty"`
	Grid    string `json:"grid,omitempty"`
	Error   string `json:"error,omitempty"`
}

func getWords(ctx context.Context, scope string, includeObscure bool) ([]string, error) {
	client, err := bigquery.NewClient(ctx, "xword-x")
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	obscureValues := []string{"false"}
	if includeObscure {
		obscureValues = append(obscureValues, "true")
	}
	query := fmt.Sprintf("SELECT word_key FROM `xword-x.FirestoreQuery.all_words` WHERE scope = %q AND obscure IN (%s)", scope, strings.Join(obscureValues, ","))
	q := client.Query(query)
	q.Location = "US"

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var words []string
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}

		word, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		words = append(words, word)
	}
	return words, nil
}

func execute(ctx context.Context, req SolveFillRequest) (string, xwfill.Outcome, error) {
	if strings.TrimSpace(req.Structure) == "" {
		return "", 0, fmt.Errorf("structure must not be empty")
	}
	if len(req.Words) == 0 && req.WordScope == "" {
		return "", 0, fmt.Errorf("words or wordScope must be provided")
	}

	puzzle, err := xwfill.Parse(req.Structure)
	if err != nil {
		return "", 0, fmt.Errorf("parsing structure: %w", err)
	}

	words := lo.Map(req.Words, func(w string, _ int) string {
		return strings.ToLower(w)
	})
	if req.WordScope != "" {
		scopeWords, err := getWords(ctx, req.WordScope, req.IncludeObscure)
		if err != nil {
			return "", 0, fmt.Errorf("getWords: %w", err)
		}
		log.Info().Str("scope", req.WordScope).Int("words", len(scopeWords)).Msg("loaded scope words")
		words = append(words, scopeWords...)
	}

	bank, err := internal.NewWordBank(words, req.ExcludedWords)
	if err != nil {
		return "", 0, fmt.Errorf("building word bank: %w", err)
	}

	timeout := 1 * time.Minute
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline) - 5*time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	solver := xwfill.NewSolver(puzzle, bank.Words(), xwfill.SolverParams{
		Workers: req.Workers,
	})
	assignment, outcome := solver.Solve(ctx)
	if outcome != xwfill.Solved {
		return "", outcome, nil
	}
	return puzzle.Render(assignment).Repr(), outcome, nil
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func solveFill(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	var req SolveFillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("parsing JSON body")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SolveFillResponse{
			Success: false,
			Error:   fmt.Sprintf("Invalid JSON: %v", err),
		})
		return
	}

	grid, outcome, err := execute(r.Context(), req)

	response := SolveFillResponse{
		Success: err == nil,
		Outcome: outcome.String(),
		Grid:    grid,
	}
	if err != nil {
		response.Error = err.Error()
		response.Outcome = ""
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("marshaling response")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
		return
	}
}

func main() {
	funcframework.RegisterHTTPFunction("/solve-fill", solveFill)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatal().Err(err).Msg("funcframework.StartHostPort")
	}
}
