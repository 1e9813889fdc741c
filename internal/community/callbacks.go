package community

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var timeframeLabels = map[string]string{
	"5m":  "5 minutes",
	"30m": "30 minutes",
	"1h":  "1 hour",
	"1d":  "24 hours",
	"all": "all time",
}

// timeframeKeyboard builds the inline timeframe selector for price cards.
func timeframeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("5M 📊", "tf_5m"),
			tgbotapi.NewInlineKeyboardButtonData("30M 📈", "tf_30m"),
			tgbotapi.NewInlineKeyboardButtonData("1H 📉", "tf_1h"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1D 💹", "tf_1d"),
			tgbotapi.NewInlineKeyboardButtonData("ALL 📊", "tf_all"),
		),
	)
}

// handleCallbackQuery processes timeframe button presses on price cards.
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	// Answer the callback query to remove the loading state.
	if b.api != nil {
		b.api.Request(tgbotapi.NewCallback(query.ID, ""))
	}

	if !strings.HasPrefix(query.Data, "tf_") || query.Message == nil {
		return
	}
	timeframe := strings.TrimPrefix(query.Data, "tf_")

	ctx := context.Background()
	pair, err := b.quoter.PairData(ctx)
	if err != nil {
		b.logger.Error("Failed to fetch pair data for timeframe", zap.Error(err))
		b.editWithMarkup(query.Message.Chat.ID, query.Message.MessageID,
			"❌ Could not fetch price data. Try again later.", timeframeKeyboard())
		return
	}

	label, ok := timeframeLabels[timeframe]
	if !ok {
		label = timeframeLabels["all"]
	}
	change := pair.ChangeFor(timeframe)
	priceUSD, _ := strconv.ParseFloat(pair.PriceUSD, 64)
	trend := "📉 Falling"
	if change > 0 {
		trend = "📈 Rising"
	}

	text := fmt.Sprintf(`🏦 *FPIBANK - %s analysis*

💰 Current price: $%.6f
📊 Change: %+.2f%%
📈 Trend: %s

🕒 %s`,
		label, priceUSD, change, trend,
		time.Now().Format("02.01.2006 15:04:05"))

	b.editWithMarkup(query.Message.Chat.ID, query.Message.MessageID, text, timeframeKeyboard())
}
