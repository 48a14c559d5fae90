// Package api provides the REST API server for midi2chiptune
package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/midi2chiptune/pkg/converter"
	"github.com/james-see/midi2chiptune/pkg/converter/chips"
	"github.com/james-see/midi2chiptune/pkg/midifile"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title MIDI2Chiptune API
// @version 1.0
// @description API for rendering MIDI files with an NES-style chip synthesizer
// @host localhost:8080
// @BasePath /api/v1

const (
	// MaxUploadSize limits the size of uploaded MIDI files
	MaxUploadSize = 8 << 20
	// MaxRenderDuration caps the length of a rendered piece in seconds
	MaxRenderDuration = 600.0
)

// Server holds the settings shared by all handlers
type Server struct {
	workers int
	logger  *slog.Logger
}

// NewServer creates a server rendering with up to workers parallel notes
func NewServer(workers int, logger *slog.Logger) *Server {
	return &Server{workers: workers, logger: logger}
}

// Run starts listening on the specified port
func (s *Server) Run(port int) error {
	return s.Router().Run(fmt.Sprintf(":%d", port))
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = MaxUploadSize

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/voices", listVoices)
		v1.POST("/render", s.handleRender)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midi2chiptune",
	})
}

// listVoices godoc
// @Summary List chip voices
// @Description Returns the voice each MIDI channel is rendered with (channel mod 4)
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]map[string]string
// @Router /api/v1/voices [get]
func listVoices(c *gin.Context) {
	voices := make([]gin.H, 0, chips.VoiceCount)
	for i, v := range chips.Voices() {
		voices = append(voices, gin.H{
			"channels":    fmt.Sprintf("%d, %d, %d, %d", i, i+4, i+8, i+12),
			"voice":       v.String(),
			"description": v.Description(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"voices": voices})
}

// handleRender godoc
// @Summary Render MIDI to WAV
// @Description Upload a MIDI file and receive a mono 16-bit WAV rendering
// @Tags render
// @Accept multipart/form-data
// @Produce audio/wav
// @Param file formData file true "MIDI file to render"
// @Param tempo query number false "Tempo in BPM (default: 120)"
// @Param sample_rate query int false "Sample rate in Hz (default: 44100)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/render [post]
func (s *Server) handleRender(c *gin.Context) {
	opts, err := s.optionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Get uploaded file
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	if f := converter.DetectFormatFromContent(data); f != converter.FormatMIDI {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Uploaded file is not MIDI (detected %s)", f)})
		return
	}

	conv := converter.New(chips.NewNES(s.workers), opts)
	result, meta, err := conv.MIDIToWAV(c.Request.Context(), data)
	switch {
	case errors.Is(err, converter.ErrNoNotes):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case errors.Is(err, converter.ErrTooLong):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	case errors.Is(err, midifile.ErrInvalidHeader):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outputName := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	if outputName == "" || outputName == "." {
		outputName = "rendered"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.wav", outputName))
	c.Header("X-Note-Count", strconv.Itoa(meta.Notes))
	c.Header("X-Duration-Seconds", strconv.FormatFloat(meta.Duration, 'f', 3, 64))
	c.Data(http.StatusOK, "audio/wav", result)
}

func (s *Server) optionsFromQuery(c *gin.Context) (converter.Options, error) {
	opts := converter.DefaultOptions()
	opts.MaxDuration = MaxRenderDuration
	opts.Logger = s.logger

	if v := c.Query("tempo"); v != "" {
		tempo, err := strconv.ParseFloat(v, 64)
		if err != nil || tempo <= 0 {
			return opts, fmt.Errorf("invalid tempo %q", v)
		}
		opts.Tempo = tempo
	}
	if v := c.Query("sample_rate"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil || rate < 1000 || rate > 192000 {
			return opts, fmt.Errorf("invalid sample_rate %q", v)
		}
		opts.SampleRate = rate
	}
	return opts, nil
}
