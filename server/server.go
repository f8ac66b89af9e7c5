// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the district resolver over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/distritos/enrich"
)

// Server answers single coordinate lookups, one at a time and paced so
// the upstream service sees the same rate as a batch run.
type Server struct {
	resolver enrich.Resolver
	pacer    *enrich.Pacer
	mu       sync.Mutex
}

// NewServer creates a Server.
func NewServer(resolver enrich.Resolver, pacer *enrich.Pacer) *Server {
	return &Server{resolver: resolver, pacer: pacer}
}

// Response is the JSON answer of the lookup endpoint.
type Response struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Kind  string  `json:"kind"`
	Label string  `json:"label"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes registers the API on r.
func (s *Server) Routes(r gin.IRoutes) {
	r.GET("/api/district", s.lookup)
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

// Run serves the API on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	r := gin.Default()
	s.Routes(r)

	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()

		if err := srv.Shutdown(context.Background()); err != nil {
			log.Printf("Shutting down server: %s", err)
		}
	}()

	log.Printf("Listening on %s", addr)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func parseQuery(c *gin.Context, name string) (float64, bool) {
	v, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid or missing " + name})

		return 0, false
	}

	return v, true
}

func (s *Server) lookup(c *gin.Context) {
	lat, ok := parseQuery(c, "lat")
	if !ok {
		return
	}

	lon, ok := parseQuery(c, "lon")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	s.mu.Lock()
	label := s.resolver.Resolve(ctx, lat, lon)
	// Hold the lock through the pause so the next lookup waits for it, even
	// when this client already went away.
	if err := s.pacer.Wait(context.WithoutCancel(ctx)); err != nil {
		log.Printf("Pausing after lookup: %s", err)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, Response{
		Lat:   lat,
		Lon:   lon,
		Kind:  label.Kind.String(),
		Label: label.String(),
	})
}
