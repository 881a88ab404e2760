package nakama

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"tetramaster/internal/domain"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages []sentMessage
	labels   []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{opCode: opCode, data: append([]byte(nil), data...), presences: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) count(opCode int64) int {
	n := 0
	for _, m := range md.messages {
		if m.opCode == opCode {
			n++
		}
	}
	return n
}

// last decodes the most recent message with opCode.
func (md *mockDispatcher) last(t *testing.T, opCode int64) *structpb.Struct {
	t.Helper()
	for i := len(md.messages) - 1; i >= 0; i-- {
		if md.messages[i].opCode == opCode {
			s, err := decodePayload(md.messages[i].data)
			require.NoError(t, err)
			return s
		}
	}
	t.Fatalf("no message with opcode %d", opCode)
	return nil
}

type testPresence struct {
	userID string
}

func (p testPresence) GetHidden() bool                   { return false }
func (p testPresence) GetPersistence() bool              { return false }
func (p testPresence) GetUsername() string               { return p.userID }
func (p testPresence) GetStatus() string                 { return "" }
func (p testPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }
func (p testPresence) GetUserId() string                 { return p.userID }
func (p testPresence) GetSessionId() string              { return "session-" + p.userID }
func (p testPresence) GetNodeId() string                 { return "node-1" }

type testMatchData struct {
	testPresence
	opCode int64
	data   []byte
}

func (d testMatchData) GetOpCode() int64      { return d.opCode }
func (d testMatchData) GetData() []byte       { return d.data }
func (d testMatchData) GetReliable() bool     { return true }
func (d testMatchData) GetReceiveTime() int64 { return 0 }

func matchData(t *testing.T, from testPresence, opCode int64, fields map[string]interface{}) runtime.MatchData {
	t.Helper()
	var data []byte
	if fields != nil {
		var err error
		data, err = encodePayload(fields)
		require.NoError(t, err)
	}
	return testMatchData{testPresence: from, opCode: opCode, data: data}
}

// memCollection is an in-memory ports.CollectionPort.
type memCollection struct {
	cards map[string][]domain.Card
}

func newMemCollection() *memCollection {
	return &memCollection{cards: make(map[string][]domain.Card)}
}

func (m *memCollection) LoadCollection(_ context.Context, userID string) ([]domain.Card, error) {
	return append([]domain.Card(nil), m.cards[userID]...), nil
}

func (m *memCollection) AddCards(_ context.Context, userID string, cards []domain.Card) error {
	m.cards[userID] = append(m.cards[userID], cards...)
	return nil
}

func (m *memCollection) RemoveCard(_ context.Context, userID, uniqueID string) (bool, error) {
	for i, c := range m.cards[userID] {
		if c.Identity.UniqueID == uniqueID {
			m.cards[userID] = append(m.cards[userID][:i:i], m.cards[userID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type storageKey struct {
	collection, key, userID string
}

type storedObject struct {
	value   string
	version int
}

// fakeNakama implements the storage subset of runtime.NakamaModule with
// Nakama's version semantics: "*" writes only if absent, "" writes
// unconditionally, anything else must match the stored version.
type fakeNakama struct {
	runtime.NakamaModule
	objects map[storageKey]storedObject
	profile map[string]string
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{objects: make(map[storageKey]storedObject), profile: make(map[string]string)}
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	var out []*api.StorageObject
	for _, r := range reads {
		obj, ok := f.objects[storageKey{r.Collection, r.Key, r.UserID}]
		if !ok {
			continue
		}
		out = append(out, &api.StorageObject{
			Collection: r.Collection,
			Key:        r.Key,
			UserId:     r.UserID,
			Value:      obj.value,
			Version:    fmt.Sprint(obj.version),
		})
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	if err := f.checkVersions(writes); err != nil {
		return nil, err
	}
	return f.apply(writes), nil
}

func (f *fakeNakama) MultiUpdate(ctx context.Context, accountUpdates []*runtime.AccountUpdate, storageWrites []*runtime.StorageWrite, storageDeletes []*runtime.StorageDelete, walletUpdates []*runtime.WalletUpdate, updateLedger bool) ([]*api.StorageObjectAck, []*runtime.WalletUpdateResult, error) {
	if err := f.checkVersions(storageWrites); err != nil {
		return nil, nil, err
	}
	return f.apply(storageWrites), nil, nil
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	f.profile[userID] = displayName
	return nil
}

func (f *fakeNakama) checkVersions(writes []*runtime.StorageWrite) error {
	for _, w := range writes {
		obj, exists := f.objects[storageKey{w.Collection, w.Key, w.UserID}]
		switch {
		case w.Version == "":
		case w.Version == "*":
			if exists {
				return runtime.ErrStorageRejectedVersion
			}
		case !exists || fmt.Sprint(obj.version) != w.Version:
			return runtime.ErrStorageRejectedVersion
		}
	}
	return nil
}

func (f *fakeNakama) apply(writes []*runtime.StorageWrite) []*api.StorageObjectAck {
	acks := make([]*api.StorageObjectAck, 0, len(writes))
	for _, w := range writes {
		k := storageKey{w.Collection, w.Key, w.UserID}
		obj := f.objects[k]
		obj.value = w.Value
		obj.version++
		f.objects[k] = obj
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID, Version: fmt.Sprint(obj.version)})
	}
	return acks
}

func (f *fakeNakama) keys() []string {
	var out []string
	for k := range f.objects {
		out = append(out, k.collection+"/"+k.key+"/"+k.userID)
	}
	sort.Strings(out)
	return out
}
