package wechat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/wechatgpt/internal/config"
	"github.com/sandevgo/wechatgpt/internal/core"
	"github.com/sandevgo/wechatgpt/internal/service/chat"
	"github.com/sandevgo/wechatgpt/pkg/log"
)

const maxBodyBytes = 1 << 20

// silentAck is the platform's "received, no visible reply" response body.
const silentAck = "success"

var unsupportedTypes = map[string]string{
	"image": "Image messages are not supported yet.",
	"voice": "Voice messages are not supported yet.",
	"video": "Video messages are not supported yet.",
	"music": "Music messages are not supported yet.",
	"news":  "Article messages are not supported yet.",
}

// Server is the webhook transport: it verifies the GET handshake, decodes
// inbound XML, invokes the core handler, and encodes the reply.
type Server struct {
	cfg     *config.WeChatConfig
	handler *chat.Handler
	srv     *http.Server
	baseCtx context.Context
}

func NewServer(ctx context.Context, cfg *config.WeChatConfig, handler *chat.Handler) *Server {
	s := &Server{
		cfg:     cfg,
		handler: handler,
		baseCtx: ctx,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/wechat/callback", s.handleCallback)

	s.srv = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.ListenAddr).Msg("starting wechat webhook server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webhook server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := log.FromCtx(s.baseCtx).With().Str("request_id", uuid.NewString()).Logger().WithContext(s.baseCtx)
	logger := log.FromCtx(ctx)

	if r.Method == http.MethodGet {
		s.handleVerification(ctx, w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		logger.Error().Err(err).Msg("failed to read request body")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	msg, err := decodeInbound(bytes.NewReader(body))
	if err != nil {
		logger.Error().Err(err).Msg("failed to decode inbound message")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	logger.Debug().Str("msg_type", msg.MsgType).Str("msg_id", msg.MsgID).Str("from", msg.FromUserName).Msg("inbound message")

	switch {
	case msg.MsgType == "text":
		s.handleText(ctx, w, msg, body)
	case unsupportedTypes[msg.MsgType] != "":
		s.respondText(ctx, w, msg, unsupportedTypes[msg.MsgType])
	default:
		io.WriteString(w, silentAck)
	}
}

func (s *Server) handleVerification(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !verifySignature(s.cfg.Token, q.Get("timestamp"), q.Get("nonce"), q.Get("signature")) {
		log.FromCtx(ctx).Warn().Msg("signature verification failed")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	io.WriteString(w, q.Get("echostr"))
}

func (s *Server) handleText(ctx context.Context, w http.ResponseWriter, msg inboundMessage, raw []byte) {
	ev := core.InboundEvent{
		EventID:    msg.MsgID,
		SessionID:  msg.FromUserName,
		MessageID:  msg.MsgID,
		Text:       strings.TrimSpace(msg.Content),
		RawPayload: raw,
	}

	reply, err := s.handler.Handle(ctx, ev)
	if err != nil {
		// Ledger failure: fail the whole request so the platform
		// redelivers the event.
		log.FromCtx(ctx).Error().Err(err).Str("event_id", ev.EventID).Msg("event handling failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if reply == "" {
		io.WriteString(w, silentAck)
		return
	}
	s.respondText(ctx, w, msg, reply)
}

func (s *Server) respondText(ctx context.Context, w http.ResponseWriter, msg inboundMessage, content string) {
	out, err := encodeTextReply(msg, content)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to encode reply")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(out)
}
