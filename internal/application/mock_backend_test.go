package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campushub/phasetrack/internal/domain/events"
	"github.com/campushub/phasetrack/internal/domain/phase"
	"github.com/campushub/phasetrack/internal/domain/revision"
	"github.com/campushub/phasetrack/internal/domain/task"
)

// mockBackend is a scriptable in-memory ReviewBackend. It appends records the
// way the real backend does so service tests observe genuine state evolution.
type mockBackend struct {
	mu sync.Mutex

	details   map[string]*phase.Detail     // key: templateID/projectID
	revisions map[string][]revision.Request // key: instanceID
	tasks     map[string][]task.Task        // key: projectID

	failOn map[string]error // op name -> forced error
	calls  []string

	nextID int
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		details:   make(map[string]*phase.Detail),
		revisions: make(map[string][]revision.Request),
		tasks:     make(map[string][]task.Task),
		failOn:    make(map[string]error),
	}
}

func (m *mockBackend) key(templateID, projectID string) string {
	return templateID + "/" + projectID
}

func (m *mockBackend) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// seed installs an instance with the given status history.
func (m *mockBackend) seed(templateID, projectID string, statuses ...phase.Status) *phase.Detail {
	m.mu.Lock()
	defer m.mu.Unlock()
	detail := &phase.Detail{
		Instance: phase.Instance{
			ID:         m.id("inst"),
			TemplateID: templateID,
			ProjectID:  projectID,
			CreatedAt:  time.Now(),
		},
	}
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, s := range statuses {
		detail.History = append(detail.History, phase.StatusRecord{
			ID:         m.id("rec"),
			InstanceID: detail.Instance.ID,
			Status:     s,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		})
	}
	m.details[m.key(templateID, projectID)] = detail
	return detail
}

func (m *mockBackend) seedRevision(instanceID string, answered bool) revision.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	req := revision.Request{
		ID:         m.id("rev"),
		InstanceID: instanceID,
		Feedback:   "feedback",
		CreatedAt:  time.Now(),
	}
	if answered {
		req.RevisedFile = &revision.File{ID: m.id("file"), Filename: "answer.pdf"}
	}
	m.revisions[instanceID] = append(m.revisions[instanceID], req)
	return req
}

func (m *mockBackend) fail(op string, err error) { m.failOn[op] = err }

func (m *mockBackend) called(op string) int {
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (m *mockBackend) check(op string) error {
	m.calls = append(m.calls, op)
	if err, ok := m.failOn[op]; ok {
		return err
	}
	return nil
}

func (m *mockBackend) appendStatus(instanceID string, status phase.Status) {
	for _, detail := range m.details {
		if detail.Instance.ID == instanceID {
			detail.History = append(detail.History, phase.StatusRecord{
				ID:         m.id("rec"),
				InstanceID: instanceID,
				Status:     status,
				CreatedAt:  time.Now(),
			})
			return
		}
	}
}

func (m *mockBackend) StartPhaseInstance(ctx context.Context, templateID, projectID, actorID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("StartPhaseInstance"); err != nil {
		return "", err
	}
	key := m.key(templateID, projectID)
	if _, ok := m.details[key]; ok {
		return "", phase.ErrInstanceExists
	}
	instanceID := m.id("inst")
	detail := &phase.Detail{
		Instance: phase.Instance{
			ID:         instanceID,
			TemplateID: templateID,
			ProjectID:  projectID,
			CreatedBy:  actorID,
			CreatedAt:  time.Now(),
		},
		History: []phase.StatusRecord{{
			ID:         m.id("rec"),
			InstanceID: instanceID,
			Status:     phase.StatusInProgress,
			CreatedBy:  actorID,
			CreatedAt:  time.Now(),
		}},
	}
	m.details[key] = detail
	return detail.Instance.ID, nil
}

func (m *mockBackend) FetchPhaseDetail(ctx context.Context, templateID, projectID string) (*phase.Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("FetchPhaseDetail"); err != nil {
		return nil, err
	}
	detail, ok := m.details[m.key(templateID, projectID)]
	if !ok {
		return nil, phase.ErrInstanceNotFound
	}
	return detail, nil
}

func (m *mockBackend) SendToReview(ctx context.Context, instanceID, actorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("SendToReview"); err != nil {
		return err
	}
	m.appendStatus(instanceID, phase.StatusUnderReview)
	return nil
}

func (m *mockBackend) ApprovePhase(ctx context.Context, instanceID, actorID string, approve bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("ApprovePhase"); err != nil {
		return err
	}
	status := phase.StatusApproved
	if !approve {
		status = phase.StatusFailed
	}
	m.appendStatus(instanceID, status)
	return nil
}

func (m *mockBackend) CreateRevisionRequest(ctx context.Context, instanceID, actorID, feedback string, referenceFile *revision.File) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("CreateRevisionRequest"); err != nil {
		return "", err
	}
	req := revision.Request{
		ID:            m.id("rev"),
		InstanceID:    instanceID,
		CreatedBy:     actorID,
		Feedback:      feedback,
		ReferenceFile: referenceFile,
		CreatedAt:     time.Now(),
	}
	m.revisions[instanceID] = append(m.revisions[instanceID], req)
	return req.ID, nil
}

func (m *mockBackend) AppendRevisionStatus(ctx context.Context, instanceID, actorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("AppendRevisionStatus"); err != nil {
		return err
	}
	m.appendStatus(instanceID, phase.StatusRevisionNeeded)
	return nil
}

func (m *mockBackend) AnswerRevision(ctx context.Context, requestID string, file revision.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("AnswerRevision"); err != nil {
		return err
	}
	for instanceID, requests := range m.revisions {
		for i := range requests {
			if requests[i].ID != requestID {
				continue
			}
			if requests[i].RevisedFile != nil {
				return revision.ErrAlreadyAnswered
			}
			now := time.Now()
			requests[i].RevisedFile = &file
			requests[i].RespondedAt = &now
			m.revisions[instanceID] = requests
			return nil
		}
	}
	return revision.ErrNotFound
}

func (m *mockBackend) ListRevisions(ctx context.Context, instanceID string) ([]revision.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("ListRevisions"); err != nil {
		return nil, err
	}
	out := make([]revision.Request, len(m.revisions[instanceID]))
	copy(out, m.revisions[instanceID])
	return out, nil
}

func (m *mockBackend) PostDiscussion(ctx context.Context, instanceID, actorID, text string) (*phase.Discussion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("PostDiscussion"); err != nil {
		return nil, err
	}
	return &phase.Discussion{
		ID:         m.id("disc"),
		InstanceID: instanceID,
		Author:     actorID,
		Text:       text,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *mockBackend) UploadAttachment(ctx context.Context, instanceID, actorID string, file revision.File) (*phase.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("UploadAttachment"); err != nil {
		return nil, err
	}
	return &phase.Attachment{
		ID:         m.id("att"),
		InstanceID: instanceID,
		Author:     actorID,
		Filename:   file.Filename,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *mockBackend) FetchTasks(ctx context.Context, projectID string) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("FetchTasks"); err != nil {
		return nil, err
	}
	return m.tasks[projectID], nil
}

// recordingNotifier captures published events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []*events.Event
}

func (n *recordingNotifier) Publish(ctx context.Context, event *events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

var errBackendDown = errors.New("backend down")
