package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/zlnvch/webboard/models"
	"github.com/zlnvch/webboard/mq"
)

// SQS caps a batch at 10 entries; one transcript message mirrors that.
const transcriptBatchSize = 10

type TranscriptEntry struct {
	models.ChatMessage
	SentAt int64 `json:"sentAt"`
}

type transcriptBatch struct {
	Messages []TranscriptEntry `json:"messages"`
}

// TranscriptBatcher exports relayed chat messages to an external queue.
// It is a best-effort copy of the chat stream, not server state.
type TranscriptBatcher struct {
	WriteCh            chan TranscriptEntry
	transcriptQueue    mq.MessageQueue
	tickerMilliseconds int
}

func NewTranscriptBatcher(transcriptQueue mq.MessageQueue, tickerMilliseconds int) *TranscriptBatcher {
	return &TranscriptBatcher{
		WriteCh:            make(chan TranscriptEntry, 1024), // buffer to absorb bursts
		transcriptQueue:    transcriptQueue,
		tickerMilliseconds: tickerMilliseconds,
	}
}

// Record never blocks the caller. It reports false when the buffer is full and
// the message was not exported.
func (b *TranscriptBatcher) Record(msg models.ChatMessage) bool {
	entry := TranscriptEntry{ChatMessage: msg, SentAt: time.Now().UnixMilli()}
	select {
	case b.WriteCh <- entry:
		return true
	default:
		return false
	}
}

func (b *TranscriptBatcher) Run(shutdownCtx context.Context) {
	ticker := time.NewTicker(time.Duration(b.tickerMilliseconds) * time.Millisecond)
	defer ticker.Stop()

	batch := make([]TranscriptEntry, 0, transcriptBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		body, err := json.Marshal(transcriptBatch{Messages: batch})
		if err != nil {
			log.Printf("Error marshaling transcript batch: %v", err)
			batch = batch[:0]
			return
		}

		// Not derived from shutdownCtx: the final flush on shutdown must still go out
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.transcriptQueue.Send(ctx, string(body)); err != nil {
			log.Printf("Error sending transcript batch of %d messages: %v", len(batch), err)
		}

		batch = batch[:0]
	}

	for {
		select {
		case entry := <-b.WriteCh:
			batch = append(batch, entry)
			if len(batch) == transcriptBatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-shutdownCtx.Done():
			// Drain what is already buffered before the last flush
		drain:
			for {
				select {
				case entry := <-b.WriteCh:
					batch = append(batch, entry)
					if len(batch) == transcriptBatchSize {
						flush()
					}
				default:
					break drain
				}
			}
			flush()
			return
		}
	}
}
