package lock

import (
	"context"
	"sync"
	"time"
)

// KeyLock блокировка по ключу в пределах процесса
type KeyLock struct {
	lockMap sync.Map
}

func New() *KeyLock {
	return &KeyLock{}
}

// WithDelay ждет освобождения ключа не дольше wait и выполняет safeCode под блокировкой.
// success=false если ключ так и не освободился или контекст завершен.
func (l *KeyLock) WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	isTimeout := time.After(wait)
	for {
		if _, loaded := l.lockMap.LoadOrStore(key, true); !loaded {
			break
		}
		select {
		case <-isTimeout:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(50 * time.Millisecond):
		}
	}
	defer l.lockMap.Delete(key)
	return true, safeCode()
}

// IsLocked ключ сейчас захвачен
func (l *KeyLock) IsLocked(key string) bool {
	_, ok := l.lockMap.Load(key)
	return ok
}
