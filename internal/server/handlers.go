package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"visual-mapper/internal/catalog"
	"visual-mapper/internal/common/errors"
	"visual-mapper/internal/common/metrics"
	"visual-mapper/internal/mapping/pipeline"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// maxTerms bounds entities and keyphrases per request.
const maxTerms = 200

type mapRequest struct {
	SessionID  string   `json:"session_id"`
	Entities   []string `json:"entities"`
	Keyphrases []string `json:"keyphrases"`
	Template   string   `json:"template"`
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
		"endpoints": []string{
			"GET /healthz",
			"GET /ready",
			"POST /v1/map",
			"GET /v1/components",
			"GET " + s.cfg.Server.MetricsPath,
		},
	})
}

func (s *Server) healthz(c *gin.Context) {
	mc := s.mapper.Config()
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"service":            s.cfg.App.Name,
		"version":            s.cfg.App.Version,
		"time":               time.Now().UTC().Format(time.RFC3339),
		"vocabulary_version": s.mapper.VocabularyVersion(),
		"templates":          s.mapper.Templates(),
		"scoring": gin.H{
			"weights":         mc.Scoring.Weights,
			"threshold":       mc.Scoring.Threshold,
			"min_confidence":  mc.Scoring.MinConfidence,
			"max_confidence":  mc.Scoring.MaxConfidence,
			"generic_penalty": mc.Scoring.GenericPenalty,
			"max_matches":     mc.Scoring.MaxMatches,
		},
		"section_balancing": gin.H{
			"max_components_per_section": mc.Balancing.MaxComponentsPerSection,
			"max_repeats_per_key":        mc.Balancing.MaxRepeatsPerKey,
			"min_meaningful_main":        mc.Balancing.MinMeaningfulMain,
		},
		"features": gin.H{
			"hybrid_scoring":    true,
			"section_balancing": true,
			"props_synthesis":   mc.Props.Enabled,
			"schema_validation": mc.Props.Enabled && mc.Props.ValidationEnabled,
			"debug_breakdown":   mc.Scoring.Debug,
			"response_cache":    s.cache.Enabled(),
			"tracing":           s.cfg.Tracing.Enabled,
			"workflow_worker":   s.cfg.Camunda.Enabled,
		},
	})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.cache.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":      "not_ready",
			"cache_error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":             "ready",
		"vocabulary_version": s.mapper.VocabularyVersion(),
	})
}

func (s *Server) mapEntities(c *gin.Context) {
	var body mapRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.abortWithError(c, errors.NewInvalidRequestError(err.Error()))
		return
	}
	if len(body.Entities) > maxTerms || len(body.Keyphrases) > maxTerms {
		s.abortWithError(c, errors.NewInvalidRequestError(
			fmt.Sprintf("at most %d entities and %d keyphrases are accepted", maxTerms, maxTerms)))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout())
	defer cancel()
	ctx, span := s.obs.StartSpan(ctx, "mapper.map",
		attribute.String("session_id", body.SessionID),
		attribute.Int("entities", len(body.Entities)),
		attribute.Int("keyphrases", len(body.Keyphrases)),
	)
	defer span.End()

	start := time.Now()
	resp, hit := s.cache.Map(ctx, s.mapper, pipeline.Request{
		SessionID:  body.SessionID,
		Entities:   body.Entities,
		Keyphrases: body.Keyphrases,
		Template:   body.Template,
	})
	took := time.Since(start)

	if !hit {
		metrics.ObserveMapping(resp.Layout.Template, len(resp.Matches), resp.Warnings, took)
	}
	s.obs.RecordMapping(ctx, resp.Layout.Template, took)
	span.SetAttributes(attribute.String("template", resp.Layout.Template), attribute.Bool("cache_hit", hit))

	s.logger.Info("Layout mapped", map[string]interface{}{
		"session_id": resp.SessionID,
		"request_id": c.GetString(requestIDKey),
		"template":   resp.Layout.Template,
		"matches":    len(resp.Matches),
		"warnings":   len(resp.Warnings),
		"cache_hit":  hit,
		"took_ms":    took.Milliseconds(),
	})

	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) components(c *gin.Context) {
	entries := catalog.Listing()
	c.JSON(http.StatusOK, gin.H{
		"components": entries,
		"count":      len(entries),
	})
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	std := errors.AsStandardError(err)
	s.logger.Warn("Request rejected", map[string]interface{}{
		"request_id": c.GetString(requestIDKey),
		"errorCode":  string(std.Code),
		"details":    std.Details,
	})
	c.AbortWithStatusJSON(errors.HTTPStatus(std.Code), gin.H{
		"status": "error",
		"error":  std,
	})
}
