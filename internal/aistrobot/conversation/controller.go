package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/longkey1/aistrobot/internal/aistrobot"
	"github.com/longkey1/aistrobot/internal/logger"
)

// Credentials is the persistent home of the API key.
type Credentials interface {
	Set(key string) error
	Get() (string, bool, error)
}

// ClientFactory builds a completion client authenticated with apiKey.
// It must not perform network calls.
type ClientFactory func(apiKey string) (aistrobot.Completer, error)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithObserver registers fn to be called after every transcript append.
// User turns are reported synchronously from Submit; assistant turns from
// the goroutine that completed the request.
func WithObserver(fn func(aistrobot.Turn)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// Controller owns the transcript and mediates between user input, the
// stored credential and the completion client.
type Controller struct {
	newClient ClientFactory
	creds     Credentials
	logger    zerolog.Logger
	observer  func(aistrobot.Turn)

	transcript Transcript
	inflight   sync.WaitGroup

	mu        sync.Mutex
	client    aistrobot.Completer
	apiKey    string
	exchanges []Exchange
}

// New creates a controller with no client configured.
func New(newClient ClientFactory, creds Credentials, opts ...Option) *Controller {
	c := &Controller{
		newClient: newClient,
		creds:     creds,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure replaces the completion client with one using apiKey.
// Requests already in flight keep the client they started with.
// If the client cannot be built the previous one is dropped as well, so the
// controller never keeps serving a key other than the last one configured;
// later submissions fail with ErrNotConfigured until a usable key is set.
func (c *Controller) Configure(apiKey string) error {
	client, err := c.newClient(apiKey)

	c.mu.Lock()
	c.client = client
	c.apiKey = apiKey
	if err != nil {
		c.client = nil
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug().Err(err).Msg("completion client unavailable")
		return errors.Wrap(err, "failed to create completion client")
	}

	c.logger.Debug().Msg("completion client configured")
	return nil
}

// SetCredential persists apiKey and then configures the client with it.
// If persisting fails the current configuration is left untouched.
// A configure error is still returned after the key has been stored.
func (c *Controller) SetCredential(apiKey string) error {
	if c.creds == nil {
		return errors.New("no credential store available")
	}
	if err := c.creds.Set(apiKey); err != nil {
		return errors.Wrap(err, "failed to store API key")
	}
	return c.Configure(apiKey)
}

// Restore configures the client from the stored credential, if any.
// It reports whether a credential was found.
func (c *Controller) Restore() (bool, error) {
	if c.creds == nil {
		return false, nil
	}
	key, ok, err := c.creds.Get()
	if err != nil {
		return false, errors.Wrap(err, "failed to read stored API key")
	}
	if !ok {
		return false, nil
	}
	if err := c.Configure(key); err != nil {
		return false, err
	}
	return true, nil
}

// Configured reports whether a completion client is available.
func (c *Controller) Configured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

// APIKey returns the key the current client was configured with.
func (c *Controller) APIKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey
}

// Submit appends text as a user turn and asks the completion client for a
// reply. Input that is empty after trimming is ignored: nothing is appended,
// no request is made and ok is false.
//
// The user turn keeps the text as typed and is in the transcript when Submit
// returns. The request itself runs in the background with the trimmed text;
// its Result is sent on the returned channel, which is then closed. On
// success the reply is appended as an assistant turn. On failure nothing is
// appended and the exchange is marked Unanswered.
func (c *Controller) Submit(ctx context.Context, text string) (<-chan Result, bool) {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return nil, false
	}

	question := aistrobot.NewUserTurn(text)

	c.mu.Lock()
	client := c.client
	c.transcript.Append(question)
	idx := len(c.exchanges)
	c.exchanges = append(c.exchanges, Exchange{Question: question, State: Awaiting})
	c.inflight.Add(1)
	c.mu.Unlock()

	c.notify(question)

	results := make(chan Result, 1)
	go func() {
		defer c.inflight.Done()
		defer close(results)
		results <- c.complete(ctx, client, idx, question, prompt)
	}()

	return results, true
}

func (c *Controller) complete(ctx context.Context, client aistrobot.Completer, idx int, question aistrobot.Turn, prompt string) Result {
	if client == nil {
		return c.fail(idx, question, aistrobot.ErrNotConfigured)
	}

	completion, err := client.Complete(ctx, aistrobot.CompletionRequest{
		Prompt:    prompt,
		MaxTokens: aistrobot.MaxTokens,
	})
	if err != nil {
		return c.fail(idx, question, err)
	}

	answer := aistrobot.NewAssistantTurn(question.ID, completion.FirstText())

	c.mu.Lock()
	c.transcript.Append(answer)
	c.exchanges[idx].Answer = answer
	c.exchanges[idx].State = Answered
	c.mu.Unlock()

	c.notify(answer)
	return Result{Question: question, Answer: answer}
}

func (c *Controller) fail(idx int, question aistrobot.Turn, cause error) Result {
	err := aistrobot.RequestFailed(cause)

	c.mu.Lock()
	c.exchanges[idx].State = Unanswered
	c.exchanges[idx].Err = err
	c.mu.Unlock()

	c.logger.Debug().Err(cause).Str(logger.TURN, question.GetShortID()).Msg("completion request failed")
	return Result{Question: question, Err: err}
}

func (c *Controller) notify(turn aistrobot.Turn) {
	if c.observer != nil {
		c.observer(turn)
	}
}

// Transcript returns a snapshot of all turns in the order they were appended.
func (c *Controller) Transcript() []aistrobot.Turn {
	return c.transcript.Turns()
}

// Exchanges returns a snapshot of all submissions in submission order.
func (c *Controller) Exchanges() []Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Exchange, len(c.exchanges))
	copy(out, c.exchanges)
	return out
}

// Pending returns the number of requests still awaiting a response.
func (c *Controller) Pending() int {
	return Count(c.Exchanges()).Awaiting
}

// Wait blocks until every request issued so far has resolved.
func (c *Controller) Wait() {
	c.inflight.Wait()
}
