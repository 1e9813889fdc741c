package bot

import (
	"fmt"
	"math/rand"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var slotSymbols = []string{"🍎", "🍊", "🍋", "🍒", "🔔", "💎", "7️⃣"}

// handleSlot spins the slot machine with staged reveals.
func (b *Bot) handleSlot(message *tgbotapi.Message) {
	slots := []string{
		slotSymbols[rand.Intn(len(slotSymbols))],
		slotSymbols[rand.Intn(len(slotSymbols))],
		slotSymbols[rand.Intn(len(slotSymbols))],
	}

	sent := b.send(message.Chat.ID, "🎰 | - | - | - |")
	if sent != nil {
		time.Sleep(500 * time.Millisecond)
		b.editMessage(message.Chat.ID, sent.MessageID, fmt.Sprintf("🎰 | %s | - | - |", slots[0]))
		time.Sleep(500 * time.Millisecond)
		b.editMessage(message.Chat.ID, sent.MessageID, fmt.Sprintf("🎰 | %s | %s | - |", slots[0], slots[1]))
		time.Sleep(500 * time.Millisecond)
	}

	result := fmt.Sprintf("🎰 *Slots* 🎰\n\n🎰 | %s | %s | %s |\n\n", slots[0], slots[1], slots[2])
	switch distinct(slots) {
	case 1:
		result += "🏆 *JACKPOT!* 🏆"
	case 2:
		result += "⭐️ _Not bad!_ ⭐️"
	default:
		result += "💔 _Try again_ 💔"
	}

	if sent != nil {
		b.editMessage(message.Chat.ID, sent.MessageID, result)
	}
}

// handleCasino rolls three digits with staged reveals.
func (b *Bot) handleCasino(message *tgbotapi.Message) {
	numbers := []string{
		fmt.Sprint(rand.Intn(10)),
		fmt.Sprint(rand.Intn(10)),
		fmt.Sprint(rand.Intn(10)),
	}

	sent := b.send(message.Chat.ID, "🎯 | ? | ? | ? |")
	if sent != nil {
		time.Sleep(700 * time.Millisecond)
		b.editMessage(message.Chat.ID, sent.MessageID, fmt.Sprintf("🎯 | %s | ? | ? |", numbers[0]))
		time.Sleep(700 * time.Millisecond)
		b.editMessage(message.Chat.ID, sent.MessageID, fmt.Sprintf("🎯 | %s | %s | ? |", numbers[0], numbers[1]))
		time.Sleep(700 * time.Millisecond)
	}

	result := fmt.Sprintf("🎯 *Casino* 🎯\n\n🎯 | %s | %s | %s |\n\n", numbers[0], numbers[1], numbers[2])
	switch distinct(numbers) {
	case 1:
		result += "🏆 *JACKPOT!* 🏆"
	case 2:
		result += "⭐️ _Nice combination!_ ⭐️"
	default:
		result += "💔 _Try again_ 💔"
	}

	if sent != nil {
		b.editMessage(message.Chat.ID, sent.MessageID, result)
	}
}

// handleDice rolls two dice.
func (b *Bot) handleDice(message *tgbotapi.Message) {
	dice1 := rand.Intn(6) + 1
	dice2 := rand.Intn(6) + 1

	b.reply(message, fmt.Sprintf(
		"🎲 *Dice* 🎲\n\n🎲 First die: *%d*\n🎲 Second die: *%d*\n\n⭐️ Total: *%d*",
		dice1, dice2, dice1+dice2))
}

// handleFlip flips a coin.
func (b *Bot) handleFlip(message *tgbotapi.Message) {
	result := "HEADS"
	emoji := "🦅"
	if rand.Intn(2) == 1 {
		result = "TAILS"
		emoji = "👑"
	}

	sent := b.send(message.Chat.ID, "🪙 Flipping the coin...")
	text := fmt.Sprintf("🪙 *Coin flip* 🪙\n\n%s It landed on: *%s*", emoji, result)
	if sent != nil {
		time.Sleep(time.Second)
		b.editMessage(message.Chat.ID, sent.MessageID, text)
	}
}

// distinct counts unique values.
func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
