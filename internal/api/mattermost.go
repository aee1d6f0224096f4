package api

import (
	"context"
	"github.com/jaam8/survey_client/internal/service"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattermost/mattermost-server/v6/model"
	"go.uber.org/zap"
	"strings"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Poster is the part of *model.Client4 the bot writes with.
type Poster interface {
	CreatePostEphemeral(post *model.PostEphemeral) (*model.Post, *model.Response, error)
}

type SessionFactory func() *service.SessionController

// MattermostFrontend keeps one session per Mattermost user and answers with
// ephemeral posts so other channel members never see a session's screens.
type MattermostFrontend struct {
	client     Poster
	newSession SessionFactory
	l          *zap.Logger
	command    string
	channelID  string
	botID      string
	sessions   map[string]*SessionHandler
}

func NewMattermost(client Poster, newSession SessionFactory, l *zap.Logger, command, channelID, botID string) *MattermostFrontend {
	return &MattermostFrontend{
		client:     client,
		newSession: newSession,
		l:          l,
		command:    command,
		channelID:  channelID,
		botID:      botID,
		sessions:   make(map[string]*SessionHandler),
	}
}

type ephemeralSender struct {
	client    Poster
	l         *zap.Logger
	userID    string
	channelID string
}

func (s ephemeralSender) SendMsg(message string) error {
	post := &model.PostEphemeral{
		UserID: s.userID,
		Post: &model.Post{
			ChannelId: s.channelID,
			Message:   message,
		},
	}
	_, resp, err := s.client.CreatePostEphemeral(post)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	s.l.Debug("send new message",
		zap.String("channel_id", s.channelID),
		zap.String("user_id", s.userID),
		zap.Int("status_code", status))
	return err
}

// HandleEvent processes one websocket event. It must be called from a single
// goroutine.
func (f *MattermostFrontend) HandleEvent(ctx context.Context, event *model.WebSocketEvent) {
	if event.EventType() != model.WebsocketEventPosted {
		return
	}
	raw, ok := event.GetData()["post"].(string)
	if !ok {
		f.l.Error("event has no post")
		return
	}
	post := &model.Post{}
	if err := json.Unmarshal([]byte(raw), post); err != nil {
		f.l.Error("error unmarshalling post", zap.Error(err))
		return
	}
	if post.UserId == f.botID {
		return
	}
	if f.channelID != "" && post.ChannelId != f.channelID {
		return
	}
	args := strings.Fields(post.Message)
	if len(args) == 0 || args[0] != f.command {
		return
	}
	f.l.Info("new request for the bot",
		zap.String("user_id", post.UserId),
		zap.String("channel_id", post.ChannelId),
		zap.Int("args", len(args)-1))

	h := f.session(post.UserId, post.ChannelId)
	if len(args) < 2 {
		if err := h.SendMsg(HelpMessage + "\n\n" + Render(h.Session())); err != nil {
			f.l.Error("failed sending help", zap.Error(err))
		}
		return
	}
	h.Handle(ctx, restAfter(post.Message, 1))
}

func (f *MattermostFrontend) session(userID, channelID string) *SessionHandler {
	h, ok := f.sessions[userID]
	if !ok {
		h = New(f.newSession(), f.l.With(zap.String("user_id", userID)), nil)
		f.sessions[userID] = h
		f.l.Debug("new session", zap.String("user_id", userID))
	}
	h.out = ephemeralSender{client: f.client, l: f.l, userID: userID, channelID: channelID}
	return h
}

// Close releases every session's audio device.
func (f *MattermostFrontend) Close() {
	for userID, h := range f.sessions {
		if err := h.Session().DiscardRecording(); err != nil {
			f.l.Warn("failed to release audio device", zap.String("user_id", userID), zap.Error(err))
		}
	}
}
