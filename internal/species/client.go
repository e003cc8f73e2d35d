// Package species provides the creature data sources behind the game's
// SpeciesProvider: a PokeAPI HTTP client, an offline catalog and a cache.
package species

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wild-companion/internal/game"
)

// DefaultBaseURL is the public PokeAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// DefaultLimit covers the first five generations.
const DefaultLimit = 649

const maxBodyBytes = 4 << 20

// Client fetches species data from a PokeAPI-compatible server.
type Client struct {
	baseURL string
	http    *http.Client
	limit   int
	tracer  trace.Tracer
}

// NewClient creates a client. A nil httpClient gets a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client, limit int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		limit:   limit,
		tracer:  otel.Tracer("wild-companion/species"),
	}
}

type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listResponse struct {
	Count   int        `json:"count"`
	Results []namedRef `json:"results"`
}

type pokemonResponse struct {
	Name  string `json:"name"`
	Stats []struct {
		BaseStat int      `json:"base_stat"`
		Stat     namedRef `json:"stat"`
	} `json:"stats"`
	Species namedRef `json:"species"`
}

type speciesResponse struct {
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

type chainLink struct {
	Species          namedRef `json:"species"`
	EvolutionDetails []struct {
		Trigger  namedRef `json:"trigger"`
		MinLevel *int     `json:"min_level"`
	} `json:"evolution_details"`
	EvolvesTo []chainLink `json:"evolves_to"`
}

type chainResponse struct {
	Chain chainLink `json:"chain"`
}

// SpeciesList returns the names of every species up to the client limit.
func (c *Client) SpeciesList(ctx context.Context) ([]string, error) {
	u := fmt.Sprintf("%s/pokemon?limit=%d&offset=0", c.baseURL, c.limit)
	var resp listResponse
	if err := c.getJSON(ctx, "list species", u, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return names, nil
}

// Species returns base stats and the evolution chain URL of name.
func (c *Client) Species(ctx context.Context, name string) (game.SpeciesDetail, error) {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
	if slug == "" {
		return game.SpeciesDetail{}, &game.DataProviderError{Op: "species", Err: fmt.Errorf("empty name")}
	}

	var p pokemonResponse
	if err := c.getJSON(ctx, "species "+slug, c.baseURL+"/pokemon/"+url.PathEscape(slug), &p); err != nil {
		return game.SpeciesDetail{}, err
	}
	detail := game.SpeciesDetail{Name: p.Name}
	for _, s := range p.Stats {
		switch s.Stat.Name {
		case "hp":
			detail.BaseHP = s.BaseStat
		case "attack":
			detail.BaseAttack = s.BaseStat
		}
	}

	if p.Species.URL != "" {
		var sp speciesResponse
		if err := c.getJSON(ctx, "species info "+slug, p.Species.URL, &sp); err != nil {
			return game.SpeciesDetail{}, err
		}
		detail.EvolutionChain = sp.EvolutionChain.URL
	}
	return detail, nil
}

// EvolutionChain fetches and flattens the chain at ref, a chain URL.
func (c *Client) EvolutionChain(ctx context.Context, ref string) (*game.EvolutionNode, error) {
	var resp chainResponse
	if err := c.getJSON(ctx, "evolution chain", ref, &resp); err != nil {
		return nil, err
	}
	return convertLink(resp.Chain), nil
}

func convertLink(l chainLink) *game.EvolutionNode {
	n := &game.EvolutionNode{Species: l.Species.Name}
	if len(l.EvolutionDetails) > 0 {
		d := l.EvolutionDetails[0]
		n.Trigger = d.Trigger.Name
		if d.MinLevel != nil {
			n.MinLevel = *d.MinLevel
		}
	}
	for _, next := range l.EvolvesTo {
		n.Next = append(n.Next, convertLink(next))
	}
	return n
}

func (c *Client) getJSON(ctx context.Context, op, rawURL string, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "pokeapi."+strings.Fields(op)[0],
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", rawURL)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &game.DataProviderError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &game.DataProviderError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &game.DataProviderError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &game.DataProviderError{Op: op, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
