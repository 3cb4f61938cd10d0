package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/aistrobot/internal/aistrobot"
)

type reply struct {
	completion *aistrobot.Completion
	err        error
}

// fakeCompleter holds every request until the test releases it with respond.
type fakeCompleter struct {
	mu       sync.Mutex
	requests []aistrobot.CompletionRequest
	gates    map[string]chan reply
}

func newFakeCompleter() *fakeCompleter {
	return &fakeCompleter{gates: make(map[string]chan reply)}
}

func (f *fakeCompleter) gate(prompt string) chan reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.gates[prompt]
	if !ok {
		ch = make(chan reply, 1)
		f.gates[prompt] = ch
	}
	return ch
}

func (f *fakeCompleter) respond(prompt string, texts ...string) {
	choices := make([]aistrobot.Choice, 0, len(texts))
	for _, text := range texts {
		choices = append(choices, aistrobot.Choice{Text: text})
	}
	f.gate(prompt) <- reply{completion: &aistrobot.Completion{Choices: choices}}
}

func (f *fakeCompleter) fail(prompt string, err error) {
	f.gate(prompt) <- reply{err: err}
}

func (f *fakeCompleter) Requests() []aistrobot.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]aistrobot.CompletionRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeCompleter) Complete(ctx context.Context, req aistrobot.CompletionRequest) (*aistrobot.Completion, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	select {
	case r := <-f.gate(req.Prompt):
		return r.completion, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type memCredentials struct {
	mu     sync.Mutex
	key    string
	ok     bool
	setErr error
	events *[]string
}

func (m *memCredentials) Set(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.events != nil {
		*m.events = append(*m.events, "persist:"+key)
	}
	if m.setErr != nil {
		return m.setErr
	}
	m.key, m.ok = key, true
	return nil
}

func (m *memCredentials) Get() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key, m.ok, nil
}

func staticFactory(client aistrobot.Completer) ClientFactory {
	return func(string) (aistrobot.Completer, error) {
		return client, nil
	}
}

func newConfigured(t *testing.T, client aistrobot.Completer, opts ...Option) *Controller {
	t.Helper()
	c := New(staticFactory(client), &memCredentials{}, opts...)
	require.NoError(t, c.Configure("sk-test"))
	return c
}

func await(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case r, ok := <-results:
		require.True(t, ok, "result channel closed without a result")
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result{}
	}
}

func speakersAndTexts(turns []aistrobot.Turn) []string {
	out := make([]string, 0, len(turns))
	for _, turn := range turns {
		out = append(out, turn.Speaker.Label()+":"+turn.Text)
	}
	return out
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	client := newFakeCompleter()
	c := newConfigured(t, client)

	for _, text := range []string{"", " ", "\t\n", "   \r\n  "} {
		results, ok := c.Submit(context.Background(), text)
		assert.False(t, ok, "input %q", text)
		assert.Nil(t, results)
	}

	c.Wait()
	assert.Empty(t, c.Transcript())
	assert.Empty(t, c.Exchanges())
	assert.Empty(t, client.Requests())
}

func TestSubmitScenario(t *testing.T) {
	client := newFakeCompleter()
	c := newConfigured(t, client)

	results, ok := c.Submit(context.Background(), "Hi")
	require.True(t, ok)

	// The user turn is in place before the request is answered.
	assert.Equal(t, []string{"You:Hi"}, speakersAndTexts(c.Transcript()))
	assert.Equal(t, 1, c.Pending())

	client.respond("Hi", "Hello there")
	r := await(t, results)
	require.True(t, r.Answered())

	turns := c.Transcript()
	assert.Equal(t, []string{"You:Hi", "AistroBot:Hello there"}, speakersAndTexts(turns))
	assert.Equal(t, turns[0].ID, turns[1].ReplyTo)
	assert.Equal(t, turns[0], r.Question)
	assert.Equal(t, turns[1], r.Answer)
	assert.Equal(t, 0, c.Pending())

	_, open := <-results
	assert.False(t, open, "result channel is closed after delivery")
}

func TestSubmitTrimsPromptButKeepsUserText(t *testing.T) {
	client := newFakeCompleter()
	c := newConfigured(t, client)

	results, ok := c.Submit(context.Background(), "  What is Go?\n")
	require.True(t, ok)
	client.respond("What is Go?", " Hello ")
	await(t, results)

	requests := client.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "What is Go?", requests[0].Prompt)
	assert.Equal(t, aistrobot.MaxTokens, requests[0].MaxTokens)
	assert.Equal(t, 500, requests[0].MaxTokens)

	assert.Equal(t, []string{"You:  What is Go?\n", "AistroBot:Hello"}, speakersAndTexts(c.Transcript()))
}

func TestSubmitZeroCandidates(t *testing.T) {
	client := newFakeCompleter()
	c := newConfigured(t, client)

	results, _ := c.Submit(context.Background(), "Hi")
	client.respond("Hi")
	r := await(t, results)

	assert.True(t, r.Answered())
	turns := c.Transcript()
	require.Len(t, turns, 2)
	assert.Equal(t, aistrobot.Assistant, turns[1].Speaker)
	assert.Equal(t, "", turns[1].Text)
}

func TestSubmitFailureLeavesQuestionUnanswered(t *testing.T) {
	client := newFakeCompleter()
	c := newConfigured(t, client)

	results, _ := c.Submit(context.Background(), "Hi")
	cause := errors.New("401 Unauthorized")
	client.fail("Hi", cause)
	r := await(t, results)
	c.Wait()

	assert.False(t, r.Answered())
	assert.ErrorIs(t, r.Err, aistrobot.ErrRequestFailed)
	assert.ErrorIs(t, r.Err, cause)
	assert.Equal(t, []string{"You:Hi"}, speakersAndTexts(c.Transcript()))

	exchanges := c.Exchanges()
	require.Len(t, exchanges, 1)
	assert.Equal(t, Unanswered, exchanges[0].State)
	assert.ErrorIs(t, exchanges[0].Err, aistrobot.ErrRequestFailed)
	assert.Equal(t, Stats{Unanswered: 1}, Count(exchanges))
}

func TestSubmitWithoutClient(t *testing.T) {
	c := New(staticFactory(newFakeCompleter()), &memCredentials{})
	assert.False(t, c.Configured())

	results, ok := c.Submit(context.Background(), "Hi")
	require.True(t, ok)
	r := await(t, results)

	assert.ErrorIs(t, r.Err, aistrobot.ErrNotConfigured)
	assert.ErrorIs(t, r.Err, aistrobot.ErrRequestFailed)
	assert.Equal(t, []string{"You:Hi"}, speakersAndTexts(c.Transcript()))
}

func TestConcurrentSubmissionsAppendInArrivalOrder(t *testing.T) {
	client := newFakeCompleter()
	c := newConfigured(t, client)

	ra, _ := c.Submit(context.Background(), "A")
	rb, _ := c.Submit(context.Background(), "B")
	assert.Equal(t, []string{"You:A", "You:B"}, speakersAndTexts(c.Transcript()))
	assert.Equal(t, 2, c.Pending())

	client.respond("B", "answer B")
	await(t, rb)
	client.respond("A", "answer A")
	await(t, ra)

	assert.Equal(t,
		[]string{"You:A", "You:B", "AistroBot:answer B", "AistroBot:answer A"},
		speakersAndTexts(c.Transcript()))

	exchanges := c.Exchanges()
	require.Len(t, exchanges, 2)
	assert.Equal(t, "A", exchanges[0].Question.Text)
	assert.Equal(t, "answer A", exchanges[0].Answer.Text)
	assert.Equal(t, "answer B", exchanges[1].Answer.Text)
}

func TestManyConcurrentSubmissions(t *testing.T) {
	client := aistrobot.CompleterFunc(func(ctx context.Context, req aistrobot.CompletionRequest) (*aistrobot.Completion, error) {
		return &aistrobot.Completion{Choices: []aistrobot.Choice{{Text: "re: " + req.Prompt}}}, nil
	})
	c := newConfigured(t, client)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, ok := c.Submit(context.Background(), "ping")
			if ok {
				<-results
			}
		}()
	}
	wg.Wait()
	c.Wait()

	assert.Len(t, c.Transcript(), 100)
	assert.Equal(t, Stats{Answered: 50}, Count(c.Exchanges()))
}

func TestConfigureDuringInflightRequest(t *testing.T) {
	first := newFakeCompleter()
	second := newFakeCompleter()
	clients := map[string]aistrobot.Completer{"sk-1": first, "sk-2": second}
	c := New(func(key string) (aistrobot.Completer, error) {
		return clients[key], nil
	}, &memCredentials{})

	require.NoError(t, c.Configure("sk-1"))
	r1, _ := c.Submit(context.Background(), "one")

	require.NoError(t, c.Configure("sk-2"))
	assert.Equal(t, "sk-2", c.APIKey())
	r2, _ := c.Submit(context.Background(), "two")

	first.respond("one", "from first")
	second.respond("two", "from second")

	assert.Equal(t, "from first", await(t, r1).Answer.Text)
	assert.Equal(t, "from second", await(t, r2).Answer.Text)
	assert.Len(t, first.Requests(), 1)
	assert.Len(t, second.Requests(), 1)
}

func TestConfigureFactoryError(t *testing.T) {
	client := newFakeCompleter()
	c := New(func(key string) (aistrobot.Completer, error) {
		if key == "" {
			return nil, aistrobot.ErrUnsupportedProvider
		}
		return client, nil
	}, &memCredentials{})

	require.NoError(t, c.Configure("sk-old"))
	require.True(t, c.Configured())

	err := c.Configure("")
	assert.ErrorIs(t, err, aistrobot.ErrUnsupportedProvider)
	assert.False(t, c.Configured())
	assert.Equal(t, "", c.APIKey())

	results, ok := c.Submit(context.Background(), "Hello")
	require.True(t, ok)
	r := await(t, results)
	assert.ErrorIs(t, r.Err, aistrobot.ErrRequestFailed)
	assert.ErrorIs(t, r.Err, aistrobot.ErrNotConfigured)
	assert.Empty(t, client.Requests())
	assert.Len(t, c.Transcript(), 1)
}

func TestSetCredentialEmptyKeyFactoryError(t *testing.T) {
	creds := &memCredentials{}
	factory := func(key string) (aistrobot.Completer, error) {
		if key == "" {
			return nil, errors.New("api key is required")
		}
		return newFakeCompleter(), nil
	}
	c := New(factory, creds)
	require.NoError(t, c.SetCredential("sk-old"))

	assert.Error(t, c.SetCredential(""))
	stored, ok, err := creds.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", stored)
	assert.False(t, c.Configured())

	results, ok := c.Submit(context.Background(), "Hello")
	require.True(t, ok)
	assert.ErrorIs(t, await(t, results).Err, aistrobot.ErrRequestFailed)

	next := New(factory, creds)
	restored, err := next.Restore()
	assert.Error(t, err)
	assert.False(t, restored)
	assert.False(t, next.Configured())

	results, ok = next.Submit(context.Background(), "Hello again")
	require.True(t, ok)
	assert.ErrorIs(t, await(t, results).Err, aistrobot.ErrRequestFailed)
}

func TestSetCredentialPersistsThenConfigures(t *testing.T) {
	var events []string
	creds := &memCredentials{events: &events}
	c := New(func(key string) (aistrobot.Completer, error) {
		events = append(events, "configure:"+key)
		return newFakeCompleter(), nil
	}, creds)

	require.NoError(t, c.SetCredential("sk-new"))
	assert.Equal(t, []string{"persist:sk-new", "configure:sk-new"}, events)
	assert.True(t, c.Configured())

	stored, ok, _ := creds.Get()
	assert.True(t, ok)
	assert.Equal(t, "sk-new", stored)
}

func TestSetCredentialPersistFailure(t *testing.T) {
	creds := &memCredentials{setErr: errors.New("read-only filesystem")}
	c := New(staticFactory(newFakeCompleter()), creds)

	err := c.SetCredential("sk-new")
	assert.Error(t, err)
	assert.False(t, c.Configured())
	assert.Equal(t, "", c.APIKey())
}

func TestSetCredentialWithoutStore(t *testing.T) {
	c := New(staticFactory(newFakeCompleter()), nil)
	assert.Error(t, c.SetCredential("sk"))

	restored, err := c.Restore()
	assert.NoError(t, err)
	assert.False(t, restored)
}

func TestRestore(t *testing.T) {
	var got string
	factory := func(key string) (aistrobot.Completer, error) {
		got = key
		return newFakeCompleter(), nil
	}

	empty := New(factory, &memCredentials{})
	restored, err := empty.Restore()
	require.NoError(t, err)
	assert.False(t, restored)
	assert.False(t, empty.Configured())

	c := New(factory, &memCredentials{key: "sk-saved", ok: true})
	restored, err = c.Restore()
	require.NoError(t, err)
	assert.True(t, restored)
	assert.True(t, c.Configured())
	assert.Equal(t, "sk-saved", got)
}

func TestObserverSeesUserTurnSynchronously(t *testing.T) {
	client := newFakeCompleter()
	var mu sync.Mutex
	var seen []aistrobot.Turn
	c := newConfigured(t, client, WithObserver(func(turn aistrobot.Turn) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, turn)
	}))

	results, _ := c.Submit(context.Background(), "Hi")
	mu.Lock()
	require.Len(t, seen, 1)
	assert.Equal(t, aistrobot.User, seen[0].Speaker)
	mu.Unlock()

	client.respond("Hi", "Hello")
	await(t, results)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, aistrobot.Assistant, seen[1].Speaker)
}

func TestSubmitContextCancelled(t *testing.T) {
	client := newFakeCompleter()
	c := newConfigured(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	results, _ := c.Submit(ctx, "Hi")
	cancel()

	r := await(t, results)
	assert.ErrorIs(t, r.Err, context.Canceled)
	assert.Len(t, c.Transcript(), 1)
}
