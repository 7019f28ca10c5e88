package ui

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lifeconnect/domain/connection"
	"lifeconnect/domain/core"
	"lifeconnect/domain/series"
	"lifeconnect/internal/engine"

	"github.com/gin-gonic/gin"
)

const defaultListLimit = 50

// handleAnalyze runs a full analysis pass for one user. The request body may
// override engine defaults; an empty body uses them as-is.
func (s *Server) handleAnalyze(c *gin.Context) {
	userID, err := core.ParseUserID(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req engine.AnalysisRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
			return
		}
	}
	req.UserID = userID

	result, err := s.container.Analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		switch {
		case core.IsNotFoundError(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case core.IsInsufficientDataError(err):
			// The run completed; there was just nothing usable to analyze.
			c.JSON(http.StatusOK, result)
		default:
			s.logger.Error("Analysis failed for user %s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleListConnections reads the user's current batch with optional filters
// and cursor pagination.
func (s *Server) handleListConnections(c *gin.Context) {
	userID, err := core.ParseUserID(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cursor, err := decodeCursor(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
		return
	}

	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
			return
		}
		limit = n
	}

	connections, next, err := s.container.ConnectionRepo.ListForUser(c.Request.Context(), userID, filter, cursor, limit)
	if err != nil {
		s.logger.Error("Failed to list connections for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list connections"})
		return
	}

	resp := gin.H{
		"connections": connections,
		"count":       len(connections),
	}
	if next != nil {
		resp["nextCursor"] = encodeCursor(next)
	}
	c.JSON(http.StatusOK, resp)
}

// handleDismissConnection hides a connection from the user's feed. The body
// may carry {"dismissed": false} to restore it.
func (s *Server) handleDismissConnection(c *gin.Context) {
	userID, connID, ok := connectionParams(c)
	if !ok {
		return
	}

	dismissed := true
	if c.Request.ContentLength > 0 {
		var body struct {
			Dismissed *bool `json:"dismissed"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
			return
		}
		if body.Dismissed != nil {
			dismissed = *body.Dismissed
		}
	}

	err := s.container.ConnectionRepo.SetDismissed(c.Request.Context(), userID, connID, dismissed)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "connection not found"})
			return
		}
		s.logger.Error("Failed to dismiss connection %s: %v", connID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update connection"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dismissed": dismissed})
}

// handleRateConnection records a 1-5 usefulness rating.
func (s *Server) handleRateConnection(c *gin.Context) {
	userID, connID, ok := connectionParams(c)
	if !ok {
		return
	}

	var body struct {
		Rating int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	err := s.container.ConnectionRepo.SetRating(c.Request.Context(), userID, connID, body.Rating)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "connection not found"})
			return
		}
		s.logger.Error("Failed to rate connection %s: %v", connID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update connection"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": body.Rating})
}

func connectionParams(c *gin.Context) (core.UserID, core.ConnectionID, bool) {
	userID, err := core.ParseUserID(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return "", "", false
	}
	connID, err := core.ParseConnectionID(c.Param("connectionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection id"})
		return "", "", false
	}
	return userID, connID, true
}

func parseListFilter(c *gin.Context) (connection.ListFilter, error) {
	var filter connection.ListFilter

	if v := c.Query("strength"); v != "" {
		st := connection.Strength(v)
		switch st {
		case connection.StrengthWeak, connection.StrengthModerate, connection.StrengthStrong:
			filter.Strength = &st
		default:
			return filter, fmt.Errorf("unknown strength %q", v)
		}
	}
	if v := c.Query("direction"); v != "" {
		d := connection.Direction(v)
		switch d {
		case connection.DirectionPositive, connection.DirectionNegative:
			filter.Direction = &d
		default:
			return filter, fmt.Errorf("unknown direction %q", v)
		}
	}
	if v := c.Query("dismissed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("dismissed must be a boolean")
		}
		filter.Dismissed = &b
	}
	if v := c.Query("domain"); v != "" {
		dt := series.DomainType(v)
		switch dt {
		case series.DomainHealth, series.DomainEvent, series.DomainTopic, series.DomainEmotion:
			filter.Domain = &dt
		default:
			return filter, fmt.Errorf("unknown domain %q", v)
		}
	}
	return filter, nil
}

// encodeCursor packs the pagination position into an opaque URL-safe token.
func encodeCursor(cur *connection.Cursor) string {
	raw := fmt.Sprintf("%s|%s", cur.DetectedAt.Time().UTC().Format(time.RFC3339Nano), cur.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(token string) (*connection.Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed cursor")
	}
	at, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, err
	}
	id, err := core.ParseConnectionID(parts[1])
	if err != nil {
		return nil, err
	}
	return &connection.Cursor{DetectedAt: core.NewTimestamp(at), ID: id}, nil
}
