package progresshub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastDeliversOnlyToMatchingAssignment(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	clientA := &Client{Send: make(chan []byte, 4), AssignmentID: 1}
	clientB := &Client{Send: make(chan []byte, 4), AssignmentID: 2}
	hub.Register(clientA)
	hub.Register(clientB)

	waitForSubscriberCount(t, hub, 1, 1)
	waitForSubscriberCount(t, hub, 2, 1)

	hub.Broadcast(&ProgressEvent{AssignmentID: 1, Stage: StageStudentGraded, StudentID: 100})

	select {
	case msg := <-clientA.Send:
		var evt ProgressEvent
		require.NoError(t, json.Unmarshal(msg, &evt))
		assert.Equal(t, uint(100), evt.StudentID)
	case <-time.After(time.Second):
		t.Fatal("expected clientA to receive the broadcast")
	}

	select {
	case <-clientB.Send:
		t.Fatal("clientB subscribed to a different assignment and should not receive this event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Send: make(chan []byte, 1), AssignmentID: 9}
	hub.Register(client)
	waitForSubscriberCount(t, hub, 9, 1)

	hub.Unregister(client)
	waitForSubscriberCount(t, hub, 9, 0)

	_, ok := <-client.Send
	assert.False(t, ok, "Send channel must be closed on unregister")
}

func TestReporter_TranslatesGradingOutcomesToEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	reporter := NewReporter(hub)

	client := &Client{Send: make(chan []byte, 4), AssignmentID: 5}
	hub.Register(client)
	waitForSubscriberCount(t, hub, 5, 1)

	reporter.ReportStudentGraded(5, 50, false)
	reporter.ReportStudentGraded(5, 51, true)
	reporter.ReportBatchComplete(5)

	stages := []string{}
	for i := 0; i < 3; i++ {
		select {
		case msg := <-client.Send:
			var evt ProgressEvent
			require.NoError(t, json.Unmarshal(msg, &evt))
			stages = append(stages, evt.Stage)
		case <-time.After(time.Second):
			t.Fatal("expected 3 events")
		}
	}
	assert.Equal(t, []string{StageStudentGraded, StageStudentErrored, StageBatchComplete}, stages)
}

func waitForSubscriberCount(t *testing.T, hub *Hub, assignmentID uint, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount(assignmentID) == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("subscriber count for assignment %d never reached %d", assignmentID, want)
}
