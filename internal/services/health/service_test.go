package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeAI bool

func (f fakeAI) Configured() bool { return bool(f) }

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		svc  *Service
		want Status
	}{
		{name: "memory", svc: NewService(nil, fakeAI(false)), want: Status{OK: true, Database: "memory", AI: false}},
		{name: "db up", svc: NewService(fakePinger{}, fakeAI(true)), want: Status{OK: true, Database: "up", AI: true}},
		{name: "db down", svc: NewService(fakePinger{err: errors.New("refused")}, fakeAI(true)), want: Status{OK: false, Database: "down", AI: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.svc.Status(context.Background()); got != tt.want {
				t.Fatalf("Status() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
