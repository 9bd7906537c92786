package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"stayops/core/config"
	"stayops/core/errors"
	jobEntity "stayops/modules/job/entity"
	"stayops/modules/pipeline/events"
	propertyEntity "stayops/modules/property/entity"
	resEntity "stayops/modules/reservation/entity"
	resService "stayops/modules/reservation/service"
	scheduleDto "stayops/modules/schedule/dto"
	scheduleEntity "stayops/modules/schedule/entity"
	scheduleService "stayops/modules/schedule/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// memReservations is an in-memory reservation store shared by the fakes.
type memReservations struct {
	mu           sync.Mutex
	items        map[uuid.UUID]*resEntity.Reservation
	markFailures int
}

func newMemReservations() *memReservations {
	return &memReservations{items: make(map[uuid.UUID]*resEntity.Reservation)}
}

func (m *memReservations) put(r *resEntity.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[r.ID] = r
}

func (m *memReservations) GetByID(ctx context.Context, id uuid.UUID) (*resEntity.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (m *memReservations) UpdateStatus(ctx context.Context, id uuid.UUID, status resEntity.ReservationStatus, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.items[id]
	r.Status = status
	if reason == "" {
		r.StatusReason = nil
	} else {
		r.StatusReason = &reason
	}
	return nil
}

func (m *memReservations) MarkJobsCreated(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markFailures > 0 {
		m.markFailures--
		return fmt.Errorf("connection reset by peer")
	}
	m.items[id].JobsCreated = true
	return nil
}

// failNextMarkJobsCreated makes the next n MarkJobsCreated calls fail with a
// transient error.
func (m *memReservations) failNextMarkJobsCreated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markFailures = n
}

func (m *memReservations) status(id uuid.UUID) (resEntity.ReservationStatus, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.items[id]
	reason := ""
	if r.StatusReason != nil {
		reason = *r.StatusReason
	}
	return r.Status, reason
}

func (m *memReservations) jobsCreated(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].JobsCreated
}

// memBlocks backs the block store with the real conflict engine and resolver,
// so the end-to-end path exercises the production overlap semantics.
type memBlocks struct {
	mu       sync.Mutex
	blocks   []scheduleEntity.ResourceBlock
	engine   *scheduleService.ConflictEngine
	resolver *scheduleService.ConflictResolver
}

func newMemBlocks() *memBlocks {
	return &memBlocks{
		engine:   scheduleService.NewConflictEngine(),
		resolver: scheduleService.NewConflictResolver(),
	}
}

func (m *memBlocks) add(b scheduleEntity.ResourceBlock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks = append(m.blocks, b)
}

func (m *memBlocks) forProperty(propertyID uuid.UUID) []scheduleEntity.ResourceBlock {
	var out []scheduleEntity.ResourceBlock
	for _, b := range m.blocks {
		if b.PropertyID == propertyID {
			out = append(out, b)
		}
	}
	return out
}

func (m *memBlocks) CheckAvailability(ctx context.Context, propertyID uuid.UUID, start, end time.Time) (*scheduleDto.AvailabilityResult, *errors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := m.engine.CheckAvailability(m.forProperty(propertyID), start, end)
	return &result, nil
}

func (m *memBlocks) CreateBookingBlocks(ctx context.Context, propertyID, reservationID uuid.UUID, start, end time.Time, bufferHours int) ([]scheduleEntity.ResourceBlock, *errors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking := scheduleEntity.ResourceBlock{
		PropertyID: propertyID,
		StartAt:    start,
		EndAt:      end,
		Kind:       scheduleEntity.BlockKindBooking,
		Status:     scheduleEntity.BlockStatusActive,
		SourceID:   &reservationID,
		SourceType: "reservation",
		Priority:   scheduleEntity.BlockPriorityHigh,
	}
	booking.ID = uuid.New()

	buffer := scheduleEntity.ResourceBlock{
		PropertyID: propertyID,
		StartAt:    end,
		EndAt:      end.Add(time.Duration(bufferHours) * time.Hour),
		Kind:       scheduleEntity.BlockKindBuffer,
		Status:     scheduleEntity.BlockStatusActive,
		SourceID:   &reservationID,
		SourceType: "reservation",
		Priority:   scheduleEntity.BlockPriorityLow,
	}
	buffer.ID = uuid.New()

	m.blocks = append(m.blocks, booking, buffer)
	return []scheduleEntity.ResourceBlock{booking, buffer}, nil
}

func (m *memBlocks) CancelBlock(ctx context.Context, blockID uuid.UUID) *errors.AppError {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.blocks {
		if m.blocks[i].ID == blockID {
			m.blocks[i].Status = scheduleEntity.BlockStatusCancelled
		}
	}
	return nil
}

func (m *memBlocks) Resolve(ctx context.Context, start, end time.Time, conflicts []scheduleEntity.ResourceBlock) *scheduleService.Resolution {
	return m.resolver.Resolve(start, end, conflicts)
}

func (m *memBlocks) activeByKind(propertyID uuid.UUID, kind scheduleEntity.BlockKind) []scheduleEntity.ResourceBlock {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []scheduleEntity.ResourceBlock
	for _, b := range m.forProperty(propertyID) {
		if b.Kind == kind && b.Status == scheduleEntity.BlockStatusActive {
			out = append(out, b)
		}
	}
	return out
}

// memProperties resolves properties for the validator.
type memProperties struct {
	mu    sync.Mutex
	items map[uuid.UUID]*propertyEntity.Property
}

func newMemProperties() *memProperties {
	return &memProperties{items: make(map[uuid.UUID]*propertyEntity.Property)}
}

func (m *memProperties) put(p *propertyEntity.Property) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[p.ID] = p
}

func (m *memProperties) GetByID(ctx context.Context, id uuid.UUID) (*propertyEntity.Property, *errors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, errors.NewAppError(errors.ErrNotFound, "property not found", nil)
	}
	return p, nil
}

// memJobs derives work items from the stock configuration and records
// allocation attempts without a real candidate pool. Like the real service,
// derivation is idempotent per reservation: a retried expansion returns the
// existing pending items instead of minting a second set.
type memJobs struct {
	mu             sync.Mutex
	derived        map[uuid.UUID][]jobEntity.Job
	assignAttempts int
}

func newMemJobs() *memJobs {
	return &memJobs{derived: make(map[uuid.UUID][]jobEntity.Job)}
}

func (m *memJobs) DeriveForReservation(ctx context.Context, reservationID, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]jobEntity.Job, *errors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.derived[reservationID]; ok {
		var pending []jobEntity.Job
		for _, job := range existing {
			if job.Status == jobEntity.JobPending {
				pending = append(pending, job)
			}
		}
		return pending, nil
	}

	cfg := config.DefaultJobsConfig()
	var jobs []jobEntity.Job
	for _, spec := range cfg.PreService {
		jobs = append(jobs, newJobFromSpec(reservationID, propertyID, spec, checkIn.Add(-time.Duration(spec.OffsetHours)*time.Hour)))
	}
	for _, spec := range cfg.PostService {
		jobs = append(jobs, newJobFromSpec(reservationID, propertyID, spec, checkOut.Add(time.Duration(spec.OffsetHours)*time.Hour)))
	}
	m.derived[reservationID] = jobs
	return jobs, nil
}

func newJobFromSpec(reservationID, propertyID uuid.UUID, spec config.JobSpec, at time.Time) jobEntity.Job {
	job := jobEntity.Job{
		Type:                 spec.Type,
		PropertyID:           propertyID,
		ReservationID:        reservationID,
		ScheduledAt:          at,
		DurationMinutes:      spec.DurationMinutes,
		Priority:             jobEntity.JobPriority(spec.Priority),
		RequiredCapabilities: spec.Capabilities,
		Status:               jobEntity.JobPending,
	}
	job.ID = uuid.New()
	return job
}

func (m *memJobs) AssignPending(ctx context.Context, job *jobEntity.Job) (*uuid.UUID, *errors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignAttempts++
	return nil, nil
}

func (m *memJobs) attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignAttempts
}

func (m *memJobs) derivedFor(reservationID uuid.UUID) []jobEntity.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.derived[reservationID]
}

// eventRecorder captures published events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(ctx context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) typesFor(reservationID uuid.UUID) []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.EventType
	for _, e := range r.events {
		if e.ReservationID == reservationID {
			out = append(out, e.Type)
		}
	}
	return out
}

type pipelineWorld struct {
	store      *memReservations
	blocks     *memBlocks
	properties *memProperties
	jobs       *memJobs
	recorder   *eventRecorder
	scheduler  *Scheduler
	queue      *Queue
	property   *propertyEntity.Property
}

func newPipelineWorld(t *testing.T) *pipelineWorld {
	t.Helper()

	cfg := testPipelineConfig()
	w := &pipelineWorld{
		store:      newMemReservations(),
		blocks:     newMemBlocks(),
		properties: newMemProperties(),
		jobs:       newMemJobs(),
		recorder:   &eventRecorder{},
	}

	w.property = &propertyEntity.Property{
		Name:         "Seaside Loft",
		Slug:         "seaside-loft",
		MaxOccupancy: 2,
		MinStayDays:  1,
		NightlyRate:  120,
		Status:       propertyEntity.PropertyStatusActive,
	}
	w.property.ID = uuid.New()
	w.properties.put(w.property)

	validator := resService.NewValidator(w.properties, w.blocks, cfg.MaxAdvanceDays)
	w.scheduler = NewScheduler(w.store, validator, w.blocks, w.jobs, w.recorder, cfg)
	w.queue = NewQueue(cfg, w.scheduler.Process, w.scheduler.MarkError)
	w.queue.Start()
	t.Cleanup(w.queue.Stop)
	return w
}

func (w *pipelineWorld) newReservation(guests int, checkIn, checkOut time.Time) *resEntity.Reservation {
	r := &resEntity.Reservation{
		PropertyID:  w.property.ID,
		GuestName:   "Ada Guest",
		GuestEmail:  "ada@example.com",
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      guests,
		TotalAmount: 240,
		Status:      resEntity.ReservationStatusPending,
	}
	r.ID = uuid.New()
	w.store.put(r)
	return r
}

func (w *pipelineWorld) waitTerminal(t *testing.T, id uuid.UUID) {
	t.Helper()
	require.Eventually(t, func() bool {
		status, _ := w.store.status(id)
		return status != resEntity.ReservationStatusPending && !w.queue.InFlight(id)
	}, 3*time.Second, 5*time.Millisecond)
}

func stayWindow(daysAhead, nights int) (time.Time, time.Time) {
	checkIn := time.Now().Add(time.Duration(daysAhead) * 24 * time.Hour).Truncate(time.Hour)
	return checkIn, checkIn.Add(time.Duration(nights) * 24 * time.Hour)
}

func TestEndToEndCapacityExceededRejection(t *testing.T) {
	t.Parallel()

	w := newPipelineWorld(t)
	checkIn, checkOut := stayWindow(3, 2)
	r := w.newReservation(4, checkIn, checkOut)

	require.True(t, w.queue.Enqueue(r.ID))
	w.waitTerminal(t, r.ID)

	status, reason := w.store.status(r.ID)
	require.Equal(t, resEntity.ReservationStatusRejected, status)
	require.Equal(t, resService.ReasonCapacity, reason)

	require.Empty(t, w.blocks.activeByKind(w.property.ID, scheduleEntity.BlockKindBooking), "no blocks on rejection")
	require.Empty(t, w.blocks.activeByKind(w.property.ID, scheduleEntity.BlockKindBuffer))
	require.Zero(t, w.jobs.attempts())
	require.Contains(t, w.recorder.typesFor(r.ID), events.ReservationRejected)
}

func TestEndToEndConfirmationCreatesBlocksAndJobs(t *testing.T) {
	t.Parallel()

	w := newPipelineWorld(t)
	checkIn, checkOut := stayWindow(3, 2)
	r := w.newReservation(2, checkIn, checkOut)

	require.True(t, w.queue.Enqueue(r.ID))
	w.waitTerminal(t, r.ID)

	status, _ := w.store.status(r.ID)
	require.Equal(t, resEntity.ReservationStatusConfirmed, status)

	bookings := w.blocks.activeByKind(w.property.ID, scheduleEntity.BlockKindBooking)
	require.Len(t, bookings, 1)
	require.True(t, bookings[0].StartAt.Equal(checkIn))
	require.True(t, bookings[0].EndAt.Equal(checkOut))

	buffers := w.blocks.activeByKind(w.property.ID, scheduleEntity.BlockKindBuffer)
	require.Len(t, buffers, 1)
	require.True(t, buffers[0].StartAt.Equal(checkOut), "buffer starts at check-out")
	require.True(t, buffers[0].EndAt.Equal(checkOut.Add(4*time.Hour)))

	require.Eventually(t, func() bool { return w.store.jobsCreated(r.ID) }, time.Second, 5*time.Millisecond)
	require.Len(t, w.jobs.derivedFor(r.ID), 4, "two pre-service plus two post-service items")
	require.Equal(t, 4, w.jobs.attempts(), "every derived item gets an allocation pass")

	types := w.recorder.typesFor(r.ID)
	require.Contains(t, types, events.ReservationConfirmed)
	require.Contains(t, types, events.BlockCreated)
	require.Contains(t, types, events.JobCreated)
}

func TestEndToEndRetryAfterMarkFailureDerivesOneSet(t *testing.T) {
	t.Parallel()

	w := newPipelineWorld(t)
	w.store.failNextMarkJobsCreated(1)
	checkIn, checkOut := stayWindow(3, 2)
	r := w.newReservation(2, checkIn, checkOut)

	require.True(t, w.queue.Enqueue(r.ID))
	w.waitTerminal(t, r.ID)

	status, _ := w.store.status(r.ID)
	require.Equal(t, resEntity.ReservationStatusConfirmed, status)
	require.Eventually(t, func() bool { return w.store.jobsCreated(r.ID) }, time.Second, 5*time.Millisecond)

	require.Len(t, w.jobs.derivedFor(r.ID), 4,
		"the retried expansion fills in, it never mints a second set")
	require.Len(t, w.blocks.activeByKind(w.property.ID, scheduleEntity.BlockKindBooking), 1,
		"the retry resumes at derivation, not at block commit")
	require.Len(t, w.blocks.activeByKind(w.property.ID, scheduleEntity.BlockKindBuffer), 1)
}

func TestEndToEndConcurrentOverlapConfirmsExactlyOne(t *testing.T) {
	t.Parallel()

	w := newPipelineWorld(t)
	checkIn, checkOut := stayWindow(5, 3)
	first := w.newReservation(2, checkIn, checkOut)
	second := w.newReservation(2, checkIn.Add(24*time.Hour), checkOut.Add(24*time.Hour))

	require.True(t, w.queue.Enqueue(first.ID))
	require.True(t, w.queue.Enqueue(second.ID))
	w.waitTerminal(t, first.ID)
	w.waitTerminal(t, second.ID)

	firstStatus, firstReason := w.store.status(first.ID)
	secondStatus, secondReason := w.store.status(second.ID)

	statuses := []resEntity.ReservationStatus{firstStatus, secondStatus}
	require.Contains(t, statuses, resEntity.ReservationStatusConfirmed)
	require.Contains(t, statuses, resEntity.ReservationStatusRejected)

	rejectedReason := firstReason
	if firstStatus == resEntity.ReservationStatusConfirmed {
		rejectedReason = secondReason
	}
	require.Equal(t, resService.ReasonBookingConflict, rejectedReason)

	require.Len(t, w.blocks.activeByKind(w.property.ID, scheduleEntity.BlockKindBooking), 1,
		"exactly one booking block survives the race")
}

func TestEndToEndAutoResolvesAllowListedEvents(t *testing.T) {
	t.Parallel()

	w := newPipelineWorld(t)
	checkIn, checkOut := stayWindow(3, 2)

	eventType := "meeting"
	block := scheduleEntity.ResourceBlock{
		PropertyID: w.property.ID,
		StartAt:    checkIn.Add(2 * time.Hour),
		EndAt:      checkIn.Add(4 * time.Hour),
		Kind:       scheduleEntity.BlockKindManual,
		Status:     scheduleEntity.BlockStatusActive,
		SourceType: "manual",
		EventType:  &eventType,
		Priority:   scheduleEntity.BlockPriorityLow,
	}
	block.ID = uuid.New()
	w.blocks.add(block)

	r := w.newReservation(2, checkIn, checkOut)
	require.True(t, w.queue.Enqueue(r.ID))
	w.waitTerminal(t, r.ID)

	status, _ := w.store.status(r.ID)
	require.Equal(t, resEntity.ReservationStatusConfirmed, status,
		"an allow-listed event is rescheduled out of the way")
	require.Contains(t, w.recorder.typesFor(r.ID), events.BlockCancelled)
	require.Len(t, w.blocks.activeByKind(w.property.ID, scheduleEntity.BlockKindManual), 0)
}

func TestEndToEndEscalatesNonResolvableEvent(t *testing.T) {
	t.Parallel()

	w := newPipelineWorld(t)
	checkIn, checkOut := stayWindow(3, 2)

	eventType := "renovation"
	block := scheduleEntity.ResourceBlock{
		PropertyID: w.property.ID,
		StartAt:    checkIn.Add(2 * time.Hour),
		EndAt:      checkIn.Add(4 * time.Hour),
		Kind:       scheduleEntity.BlockKindManual,
		Status:     scheduleEntity.BlockStatusActive,
		SourceType: "manual",
		EventType:  &eventType,
		Priority:   scheduleEntity.BlockPriorityMedium,
	}
	block.ID = uuid.New()
	w.blocks.add(block)

	r := w.newReservation(2, checkIn, checkOut)
	require.True(t, w.queue.Enqueue(r.ID))
	w.waitTerminal(t, r.ID)

	status, _ := w.store.status(r.ID)
	require.Equal(t, resEntity.ReservationStatusManualReview, status,
		"a non-allow-listed event parks the reservation instead of rejecting it")
	require.Contains(t, w.recorder.typesFor(r.ID), events.ReservationManualReview)
	require.Empty(t, w.blocks.activeByKind(w.property.ID, scheduleEntity.BlockKindBooking))
}
