package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teamchess/leaguebot/internal/chat"
	"github.com/teamchess/leaguebot/internal/obslog"
)

// AttachChatAnnouncer subscribes plain-text chat announcements for game
// starts, game results and warnings. Posting is fire-and-forget: failures
// are logged, never retried, and never block the event path.
func AttachChatAnnouncer(p *Publisher, egress chat.Egress) {
	p.OnGameStart(func(ev GameStart) {
		text := fmt.Sprintf("%s: %s vs %s has started. %s", ev.LeagueName, ev.White, ev.Black, ev.GameLink)
		post(egress, ev.Channel, text)
	})
	p.OnGameOver(func(ev GameOver) {
		text := fmt.Sprintf("%s: %s %s %s", ev.LeagueName, ev.White, ev.Result, ev.Black)
		post(egress, ev.Channel, text)
	})
	p.OnGameWarning(func(ev GameWarning) {
		text := fmt.Sprintf("%s: game between %s and %s is invalid because %s", ev.LeagueName, ev.White, ev.Black, ev.Reason)
		post(egress, ev.Channel, text)
	})
}

func post(egress chat.Egress, channel, text string) {
	if egress == nil || channel == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := egress.SendText(ctx, channel, text); err != nil {
			obslog.L().Warn("chat_post_error", zap.String("channel", channel), zap.Error(err))
		}
	}()
}
