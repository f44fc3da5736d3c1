package telegram

import "sync"

// chatQueue runs jobs one at a time per chat, in the order they were enqueued.
// Different chats run concurrently. A chat holds a goroutine only while it has work.
type chatQueue struct {
	mu      sync.Mutex
	pending map[int64][]func()
}

func newChatQueue() *chatQueue {
	return &chatQueue{pending: make(map[int64][]func())}
}

func (q *chatQueue) Enqueue(chatID int64, job func()) {
	q.mu.Lock()
	jobs, running := q.pending[chatID]
	q.pending[chatID] = append(jobs, job)
	q.mu.Unlock()

	if !running {
		go q.drain(chatID)
	}
}

func (q *chatQueue) drain(chatID int64) {
	for {
		q.mu.Lock()
		jobs := q.pending[chatID]
		if len(jobs) == 0 {
			delete(q.pending, chatID)
			q.mu.Unlock()
			return
		}
		job := jobs[0]
		jobs[0] = nil
		q.pending[chatID] = jobs[1:]
		q.mu.Unlock()

		job()
	}
}
