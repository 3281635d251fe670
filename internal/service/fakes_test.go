package service_test

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/leeminji/quizrally/internal/apperror"
	"github.com/leeminji/quizrally/internal/model"
	"github.com/leeminji/quizrally/internal/repository"
	"github.com/leeminji/quizrally/internal/service"
)

/* ---------------- In-memory fakes satisfying the repository interfaces ---------------- */

type fakeQuestionRepo struct {
	questions map[uint]*model.Question
	choices   map[uint]*model.Choice // by choice id
	nextQID   uint
	nextCID   uint
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		questions: map[uint]*model.Question{},
		choices:   map[uint]*model.Choice{},
		nextQID:   1,
		nextCID:   1,
	}
}

func (r *fakeQuestionRepo) Create(question *model.Question) error {
	question.ID = r.nextQID
	r.nextQID++
	for i := range question.Choices {
		question.Choices[i].ID = r.nextCID
		question.Choices[i].QuestionID = question.ID
		r.nextCID++
		c := question.Choices[i]
		r.choices[c.ID] = &c
	}
	stored := *question
	r.questions[question.ID] = &stored
	return nil
}

func (r *fakeQuestionRepo) Update(question *model.Question) error {
	old, ok := r.questions[question.ID]
	if !ok {
		return apperror.NotFoundf("question %d not found", question.ID)
	}
	for _, c := range old.Choices {
		delete(r.choices, c.ID)
	}
	for i := range question.Choices {
		if question.Choices[i].ID == 0 {
			question.Choices[i].ID = r.nextCID
			r.nextCID++
		}
		c := question.Choices[i]
		r.choices[c.ID] = &c
	}
	stored := *question
	r.questions[question.ID] = &stored
	return nil
}

func (r *fakeQuestionRepo) Delete(id uint) error {
	q, ok := r.questions[id]
	if !ok {
		return apperror.NotFoundf("question %d not found", id)
	}
	for _, c := range q.Choices {
		delete(r.choices, c.ID)
	}
	delete(r.questions, id)
	return nil
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, apperror.NotFoundf("question %d not found", id)
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuestionRepo) FindByIDWithChoices(id uint) (*model.Question, error) {
	return r.FindByID(id)
}

func (r *fakeQuestionRepo) FindByIDs(ids []uint) ([]model.Question, error) {
	var out []model.Question
	seen := map[uint]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if q, ok := r.questions[id]; ok {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindAll() ([]model.Question, error) {
	ids := make([]uint, 0, len(r.questions))
	for id := range r.questions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.questions[id])
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindChoicesByQuestionID(questionID uint) ([]model.Choice, error) {
	q, ok := r.questions[questionID]
	if !ok {
		return nil, nil
	}
	out := make([]model.Choice, len(q.Choices))
	copy(out, q.Choices)
	return out, nil
}

type fakeQuizRepo struct {
	quizzes map[uint]*model.Quiz
	links   []model.QuizQuestion
	nextID  uint
	nextLID uint
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: map[uint]*model.Quiz{}, nextID: 1, nextLID: 1}
}

func (r *fakeQuizRepo) Create(quiz *model.Quiz) error {
	quiz.ID = r.nextID
	r.nextID++
	stored := *quiz
	r.quizzes[quiz.ID] = &stored
	return nil
}

func (r *fakeQuizRepo) Update(quiz *model.Quiz) error {
	if _, ok := r.quizzes[quiz.ID]; !ok {
		return apperror.NotFoundf("quiz %d not found", quiz.ID)
	}
	stored := *quiz
	r.quizzes[quiz.ID] = &stored
	return nil
}

func (r *fakeQuizRepo) FindByID(id uint) (*model.Quiz, error) {
	q, ok := r.quizzes[id]
	if !ok {
		return nil, apperror.NotFoundf("quiz %d not found", id)
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuizRepo) FindAllForStaff() ([]model.Quiz, error) {
	return r.list(func(*model.Quiz) bool { return true }), nil
}

func (r *fakeQuizRepo) FindAllActive() ([]model.Quiz, error) {
	return r.list(func(q *model.Quiz) bool { return !q.IsDeleted }), nil
}

func (r *fakeQuizRepo) list(keep func(*model.Quiz) bool) []model.Quiz {
	ids := make([]uint, 0, len(r.quizzes))
	for id := range r.quizzes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []model.Quiz
	for _, id := range ids {
		if keep(r.quizzes[id]) {
			out = append(out, *r.quizzes[id])
		}
	}
	return out
}

func (r *fakeQuizRepo) SoftDelete(id uint, at time.Time) error {
	q, ok := r.quizzes[id]
	if !ok {
		return apperror.NotFoundf("quiz %d not found", id)
	}
	if !q.IsDeleted {
		q.IsDeleted = true
		q.DeletedAt = &at
	}
	return nil
}

func (r *fakeQuizRepo) LinkQuestions(quizID uint, questionIDs []uint) error {
	for _, questionID := range questionIDs {
		for _, l := range r.links {
			if l.QuizID == quizID && l.QuestionID == questionID {
				return apperror.Conflictf("one or more questions are already linked to quiz %d", quizID)
			}
		}
	}
	for _, questionID := range questionIDs {
		r.links = append(r.links, model.QuizQuestion{ID: r.nextLID, QuizID: quizID, QuestionID: questionID})
		r.nextLID++
	}
	return nil
}

func (r *fakeQuizRepo) LinkedQuestionCount(quizID uint) (int64, error) {
	var count int64
	for _, l := range r.links {
		if l.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

func (r *fakeQuizRepo) FindLinkedQuestions(quizID uint) ([]model.Question, error) {
	panic("fixture wires FindLinkedQuestions through linkedQuizRepo")
}

// linkedQuizRepo resolves linked questions against the question store, in link
// order, the way the SQL join does.
type linkedQuizRepo struct {
	*fakeQuizRepo
	questions *fakeQuestionRepo
}

func (r *linkedQuizRepo) FindLinkedQuestions(quizID uint) ([]model.Question, error) {
	var out []model.Question
	for _, l := range r.links {
		if l.QuizID != quizID {
			continue
		}
		if q, ok := r.questions.questions[l.QuestionID]; ok {
			out = append(out, *q)
		}
	}
	return out, nil
}

type fakeAttemptRepo struct {
	questions *fakeQuestionRepo

	attempts        map[uint]*model.QuizAttempt // by attempt id
	byUserQuiz      map[string]uint
	codes           map[string]uint
	attemptQs       map[uint]*model.AttemptQuestion // by attempt question id
	attemptChoices  map[uint][]*model.AttemptChoice // by attempt question id, insertion order
	nextAttemptID   uint
	nextQuestionID  uint
	nextChoiceRowID uint
}

func newFakeAttemptRepo(questions *fakeQuestionRepo) *fakeAttemptRepo {
	return &fakeAttemptRepo{
		questions:       questions,
		attempts:        map[uint]*model.QuizAttempt{},
		byUserQuiz:      map[string]uint{},
		codes:           map[string]uint{},
		attemptQs:       map[uint]*model.AttemptQuestion{},
		attemptChoices:  map[uint][]*model.AttemptChoice{},
		nextAttemptID:   1,
		nextQuestionID:  1,
		nextChoiceRowID: 1,
	}
}

func userQuizKey(userID, quizID uint) string {
	return fmt.Sprintf("%d|%d", userID, quizID)
}

func (r *fakeAttemptRepo) CreateWithQuestions(attempt *model.QuizAttempt, questionIDs []uint) error {
	key := userQuizKey(attempt.UserID, attempt.QuizID)
	if _, exists := r.byUserQuiz[key]; exists {
		return apperror.Conflictf("quiz %d already attempted", attempt.QuizID)
	}
	if _, taken := r.codes[attempt.AttemptCode]; taken {
		return repository.ErrAttemptCodeTaken
	}

	attempt.ID = r.nextAttemptID
	r.nextAttemptID++
	stored := *attempt
	r.attempts[attempt.ID] = &stored
	r.byUserQuiz[key] = attempt.ID
	r.codes[attempt.AttemptCode] = attempt.ID

	for i, questionID := range questionIDs {
		aq := &model.AttemptQuestion{
			ID:         r.nextQuestionID,
			AttemptID:  attempt.ID,
			QuestionID: questionID,
			OrderIndex: uint(i + 1),
		}
		r.nextQuestionID++
		r.attemptQs[aq.ID] = aq
	}
	return nil
}

func (r *fakeAttemptRepo) FindByUserAndQuiz(userID, quizID uint) (*model.QuizAttempt, error) {
	id, ok := r.byUserQuiz[userQuizKey(userID, quizID)]
	if !ok {
		return nil, apperror.NotFoundf("no attempt for quiz %d", quizID)
	}
	cp := *r.attempts[id]
	return &cp, nil
}

func (r *fakeAttemptRepo) ExistsByUserAndQuiz(userID, quizID uint) (bool, error) {
	_, ok := r.byUserQuiz[userQuizKey(userID, quizID)]
	return ok, nil
}

func (r *fakeAttemptRepo) FindAttemptedQuizIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, attempt := range r.attempts {
		if attempt.UserID == userID {
			ids = append(ids, attempt.QuizID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeAttemptRepo) FindAttemptQuestion(userID, quizID, questionID uint) (*model.AttemptQuestion, error) {
	attemptID, ok := r.byUserQuiz[userQuizKey(userID, quizID)]
	if !ok {
		return nil, apperror.NotFoundf("question %d is not part of your attempt at quiz %d", questionID, quizID)
	}
	for _, aq := range r.attemptQs {
		if aq.AttemptID == attemptID && aq.QuestionID == questionID {
			cp := *aq
			cp.Attempt = *r.attempts[attemptID]
			if q, ok := r.questions.questions[questionID]; ok {
				cp.Question = *q
			}
			return &cp, nil
		}
	}
	return nil, apperror.NotFoundf("question %d is not part of your attempt at quiz %d", questionID, quizID)
}

func (r *fakeAttemptRepo) FindAttemptQuestionsWithChoices(attemptID uint) ([]model.AttemptQuestion, error) {
	var out []model.AttemptQuestion
	for _, aq := range r.attemptQs {
		if aq.AttemptID != attemptID {
			continue
		}
		cp := *aq
		rows, _ := r.FindChoices(aq.ID)
		cp.Choices = rows
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *fakeAttemptRepo) FindChoices(attemptQuestionID uint) ([]model.AttemptChoice, error) {
	rows := r.attemptChoices[attemptQuestionID]
	out := make([]model.AttemptChoice, 0, len(rows))
	for _, row := range rows {
		cp := *row
		if c, ok := r.questions.choices[row.ChoiceID]; ok {
			cp.Choice = *c
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *fakeAttemptRepo) CreateChoicesIfAbsent(attemptQuestionID uint, choiceIDs []uint) ([]model.AttemptChoice, bool, error) {
	if existing, ok := r.attemptChoices[attemptQuestionID]; ok && len(existing) > 0 {
		rows, _ := r.FindChoices(attemptQuestionID)
		return rows, false, nil
	}
	for i, choiceID := range choiceIDs {
		row := &model.AttemptChoice{
			ID:                r.nextChoiceRowID,
			AttemptQuestionID: attemptQuestionID,
			ChoiceID:          choiceID,
			OrderIndex:        uint(i + 1),
		}
		r.nextChoiceRowID++
		r.attemptChoices[attemptQuestionID] = append(r.attemptChoices[attemptQuestionID], row)
	}
	rows, _ := r.FindChoices(attemptQuestionID)
	return rows, true, nil
}

func (r *fakeAttemptRepo) SelectChoice(attemptQuestionID, choiceID uint) error {
	aq, ok := r.attemptQs[attemptQuestionID]
	if !ok {
		return apperror.NotFoundf("attempt question %d not found", attemptQuestionID)
	}
	if attempt := r.attempts[aq.AttemptID]; attempt != nil && attempt.SubmittedAt != nil {
		return apperror.Conflictf("attempt %d already submitted", aq.AttemptID)
	}
	var target *model.AttemptChoice
	for _, row := range r.attemptChoices[attemptQuestionID] {
		if row.ChoiceID == choiceID {
			target = row
		}
	}
	if target == nil {
		return apperror.NotFoundf("choice %d is not among the attempt's choices", choiceID)
	}
	for _, row := range r.attemptChoices[attemptQuestionID] {
		row.IsSelected = row == target
	}
	return nil
}

func (r *fakeAttemptRepo) FinalizeSubmission(attemptID uint, verdicts map[uint]bool, correctCount uint, submittedAt time.Time) error {
	attempt, ok := r.attempts[attemptID]
	if !ok {
		return apperror.NotFoundf("attempt %d not found", attemptID)
	}
	if attempt.SubmittedAt != nil {
		return apperror.Conflictf("attempt %d already submitted", attemptID)
	}
	for attemptQuestionID, verdict := range verdicts {
		if aq, ok := r.attemptQs[attemptQuestionID]; ok {
			v := verdict
			aq.IsCorrect = &v
		}
	}
	attempt.CorrectCount = &correctCount
	at := submittedAt
	attempt.SubmittedAt = &at
	return nil
}

/* ---------------- Fixture plumbing ---------------- */

type fixture struct {
	questionRepo *fakeQuestionRepo
	quizRepo     *linkedQuizRepo
	attemptRepo  *fakeAttemptRepo
}

func newFixture() *fixture {
	questions := newFakeQuestionRepo()
	return &fixture{
		questionRepo: questions,
		quizRepo:     &linkedQuizRepo{fakeQuizRepo: newFakeQuizRepo(), questions: questions},
		attemptRepo:  newFakeAttemptRepo(questions),
	}
}

// addQuestion seeds a catalog question whose choice at correctIdx is correct.
func (f *fixture) addQuestion(text string, choiceTexts []string, correctIdx int) *model.Question {
	q := &model.Question{Text: text}
	for i, ct := range choiceTexts {
		q.Choices = append(q.Choices, model.Choice{Text: ct, IsCorrect: i == correctIdx})
	}
	if err := f.questionRepo.Create(q); err != nil {
		panic(err)
	}
	return q
}

func (f *fixture) addQuiz(title string, questionCount uint, randomQuestion, randomChoice bool) *model.Quiz {
	quiz := &model.Quiz{
		Title:            title,
		QuestionCount:    questionCount,
		IsRandomQuestion: randomQuestion,
		IsRandomChoice:   randomChoice,
		CreatedBy:        99,
	}
	if err := f.quizRepo.Create(quiz); err != nil {
		panic(err)
	}
	return quiz
}

func (f *fixture) link(quizID uint, questionIDs ...uint) {
	if err := f.quizRepo.LinkQuestions(quizID, questionIDs); err != nil {
		panic(err)
	}
}

// fixedRand makes shuffles reproducible in tests.
func fixedRand(seed int64) service.RandFactory {
	return func() *rand.Rand {
		return rand.New(rand.NewSource(seed))
	}
}

// seqCodeGen replays a scripted code sequence, then falls back to unique ones.
type seqCodeGen struct {
	codes []string
	calls int
}

func (g *seqCodeGen) Generate() string {
	defer func() { g.calls++ }()
	if g.calls < len(g.codes) {
		return g.codes[g.calls]
	}
	return fmt.Sprintf("FB%03d", g.calls)
}
