// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package event

import (
	"context"
	"sync"
	"time"
)

// Subscription represents a stream of events. The carrier of the events is
// typically a channel, but isn't part of the interface.
//
// Subscriptions can fail while established. Failures are reported through an
// error channel. It is closed when the subscription has ended and
// further Unsubscribe calls are no-ops.
//
// The Unsubscribe method cancels the sending of events. You must call
// Unsubscribe in all cases to ensure that resources related to the
// subscription are released. It can be called any number of times.
type Subscription interface {
	Err() <-chan error
	Unsubscribe()
}

// NewSubscription runs a producer function as a subscription in a new
// goroutine. The channel given to the producer is closed when Unsubscribe
// is called. If fn returns an error, it is sent on the subscription's error
// channel.
func NewSubscription(producer func(<-chan struct{}) error) Subscription {
	s := &funcSub{unsub: make(chan struct{}), err: make(chan error, 1)}
	go func() {
		defer close(s.err)
		err := producer(s.unsub)
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.unsubscribed {
			if err != nil {
				s.err <- err
			}
			s.unsubscribed = true
		}
	}()
	return s
}

type funcSub struct {
	unsub        chan struct{}
	err          chan error
	mu           sync.Mutex
	unsubscribed bool
}

func (s *funcSub) Unsubscribe() {
	s.mu.Lock()
	if s.unsubscribed {
		s.mu.Unlock()
		return
	}
	s.unsubscribed = true
	close(s.unsub)
	s.mu.Unlock()
	<-s.err
}

func (s *funcSub) Err() <-chan error {
	return s.err
}

// resubscribeErrBackoffMax is a 10-second backoff cap. Resubscribe does not
// read it; its cap is the backoffMax argument.
const resubscribeErrBackoffMax = 10 * time.Second

// Resubscribe calls fn repeatedly to keep a subscription established. When
// the subscription is established, Resubscribe waits for it to fail and
// calls fn again. This is repeated until Unsubscribe is called or the active
// subscription ends successfully.
//
// Resubscribe applies backoff between calls to fn. The time between calls is
// adapted based on the error rate, but will never exceed backoffMax.
func Resubscribe(backoffMax time.Duration, fn func(context.Context) (Subscription, error)) Subscription {
	s := &resubscribeSub{
		waitTime: backoffMax / 10,
		backoffMax: backoffMax,
		fn:       fn,
		err:      make(chan error),
		unsub:    make(chan struct{}),
	}
	go s.loop()
	return s
}

type resubscribeSub struct {
	fn         func(context.Context) (Subscription, error)
	err        chan error
	unsub      chan struct{}
	unsubOnce  sync.Once
	lastTry    time.Time
	waitTime   time.Duration
	backoffMax time.Duration
}

func (s *resubscribeSub) Unsubscribe() {
	s.unsubOnce.Do(func() {
		s.unsub <- struct{}{}
		<-s.err
	})
}

func (s *resubscribeSub) Err() <-chan error {
	return s.err
}

func (s *resubscribeSub) loop() {
	defer close(s.err)
	var done bool
	for !done {
		sub := s.subscribe()
		if sub == nil {
			break
		}
		done = s.waitForError(sub)
		sub.Unsubscribe()
	}
}

func (s *resubscribeSub) subscribe() Subscription {
	subscribed := make(chan error)
	var sub Subscription
	for {
		s.lastTry = time.Now()
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			rsub, err := s.fn(ctx)
			sub = rsub
			subscribed <- err
		}()
		select {
		case err := <-subscribed:
			cancel()
			if err == nil {
				if sub == nil {
					continue
				}
				return sub
			}
			select {
			case <-s.backoff():
			case <-s.unsub:
				cancel()
				return nil
			}
		case <-s.unsub:
			cancel()
			return nil
		}
	}
}

func (s *resubscribeSub) backoff() <-chan time.Time {
	if time.Since(s.lastTry) > s.backoffMax {
		s.waitTime = s.backoffMax / 10
	} else {
		s.waitTime *= 2
		if s.waitTime > s.backoffMax {
			s.waitTime = s.backoffMax
		}
	}
	return time.After(s.waitTime)
}

func (s *resubscribeSub) waitForError(sub Subscription) bool {
	defer sub.Unsubscribe()
	select {
	case <-s.unsub:
		return true
	case err, ok := <-sub.Err():
		if !ok {
			return true
		}
		s.err <- err
		return false
	}
}
