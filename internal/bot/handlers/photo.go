package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/care-planner/internal/bot/keyboards"
	"github.com/vladimiradmaev/care-planner/internal/bot/menus"
	"github.com/vladimiradmaev/care-planner/internal/bot/state"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/logger"
)

const maxPhotoBytes = 10 << 20

// PhotoHandler handles photo messages
type PhotoHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
	client       *http.Client
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(api API, deps Dependencies, stateManager state.StateManager) *PhotoHandler {
	return &PhotoHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Handle processes a photo message
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	// Get the largest photo
	photo := message.Photo[len(message.Photo)-1]
	url, err := h.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	image, err := h.download(ctx, url)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to download photo", "user_id", user.ID, "error", err)
		return menus.SendText(h.api, message.Chat.ID, "I couldn't download the photo. Please try again.", nil)
	}

	condition := defaultCondition(user)
	if c, ok := h.stateManager.GetTempData(user.TelegramID, state.KeyCondition); ok {
		condition = domain.Condition(c)
	}

	processing, err := h.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Analyzing your meal..."))
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	result, err := h.deps.Food.AnalyzePhoto(ctx, user.ID, image, message.Caption, condition)

	// Delete processing message
	if _, delErr := h.api.Request(tgbotapi.NewDeleteMessage(message.Chat.ID, processing.MessageID)); delErr != nil {
		logger.Debug("Failed to delete processing message", "error", delErr)
	}

	if err != nil {
		return replyError(h.api, message.Chat.ID, err)
	}
	finishInput(h.stateManager, user.TelegramID)
	logger.WithContext(ctx).Info("Photo analysis completed", "user_id", user.ID, "source", result.Source)

	markup := keyboards.MainMenu()
	return menus.SendText(h.api, message.Chat.ID, menus.FormatFoodAnalysis(result), &markup)
}

func (h *PhotoHandler) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxPhotoBytes)
	}
	return data, nil
}
