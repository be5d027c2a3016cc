package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/autostream/leadgen-agent/agent/agents"
	"github.com/autostream/leadgen-agent/agent/agents/orchestrator"
	"github.com/autostream/leadgen-agent/agent/agents/toolloop"
	contractx "github.com/autostream/leadgen-agent/agent/contract"
	llmx "github.com/autostream/leadgen-agent/agent/llm"
	notifyx "github.com/autostream/leadgen-agent/agent/notify"
	promptx "github.com/autostream/leadgen-agent/agent/prompt"
	retrievalx "github.com/autostream/leadgen-agent/agent/retrieval"
	statex "github.com/autostream/leadgen-agent/agent/state"
	toolx "github.com/autostream/leadgen-agent/agent/tool"
	configx "github.com/autostream/leadgen-agent/pkg/config"
	leadbookx "github.com/autostream/leadgen-agent/pkg/leadbook"
	_ "github.com/autostream/leadgen-agent/pkg/logger/autoload"
	openrouterx "github.com/autostream/leadgen-agent/pkg/openrouter"
	resendx "github.com/autostream/leadgen-agent/pkg/resend"
)

const apologyText = "Sorry, something went wrong on my end. Please try again or rephrase your question."

// emptyRetriever serves runs without an embeddings key: every search yields
// nothing and answers fall back to the placeholder grounding.
type emptyRetriever struct{}

func (emptyRetriever) Search(ctx context.Context, query string, k int) ([]contractx.Passage, error) {
	return nil, nil
}

type AppConfig struct {
	Strategy       string `envconfig:"STRATEGY" default:"staged"`
	Streaming      bool   `envconfig:"STREAMING" default:"false"`
	KnowledgeDir   string `envconfig:"KNOWLEDGE_DIR" default:"knowledge"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	RetrievalTopK  int    `envconfig:"RETRIEVAL_TOP_K" default:"4"`
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("LLM")

	prompts := promptx.MustLoad()

	registry, err := agents.NewRegistry(ctx, *llmCfg, prompts, appCfg.Streaming)
	if err != nil {
		log.Fatal().Err(err).Msg("build agent registry")
	}

	retriever := buildRetriever(ctx, appCfg)
	builder, err := retrievalx.NewContextBuilder(retriever, appCfg.RetrievalTopK)
	if err != nil {
		log.Fatal().Err(err).Msg("build context builder")
	}

	notifier, cleanup := buildNotifier(ctx)
	defer cleanup()

	guard, err := toolx.NewGuard(notifier)
	if err != nil {
		log.Fatal().Err(err).Msg("build capture guard")
	}

	store := statex.NewMemoryStore()
	dialogue := buildDialogue(appCfg.Strategy, store, registry, builder, guard, prompts.Greeting)

	runREPL(ctx, dialogue)
}

func buildDialogue(
	strategy string,
	store statex.Store,
	registry contractx.Registry,
	builder *retrievalx.ContextBuilder,
	guard *toolx.Guard,
	greeting string,
) contractx.Dialogue {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "toolloop":
		svc, err := toolloop.New(store, registry.Assistant(), builder, guard)
		if err != nil {
			log.Fatal().Err(err).Msg("build tool-loop service")
		}
		log.Info().Msg("using tool-loop strategy")
		return svc
	default:
		o, err := orchestrator.New(store, registry, builder, guard, greeting)
		if err != nil {
			log.Fatal().Err(err).Msg("build staged orchestrator")
		}
		log.Info().Msg("using staged strategy")
		return o
	}
}

// buildRetriever indexes the local knowledge base when an embeddings key is
// configured. Without one the agent still runs, answering from the
// no-information placeholder.
func buildRetriever(ctx context.Context, cfg *AppConfig) contractx.Retriever {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, knowledge retrieval disabled")
		return emptyRetriever{}
	}

	client := openrouterx.NewClient(openrouterx.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
	})
	embedder, err := retrievalx.NewOpenAIEmbedder(client, cfg.EmbeddingModel)
	if err != nil {
		log.Fatal().Err(err).Msg("build embedder")
	}
	store, err := retrievalx.NewVectorStore(embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("build vector store")
	}

	chunks, err := retrievalx.LoadKnowledgeBase(cfg.KnowledgeDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.KnowledgeDir).Msg("load knowledge base")
	}
	if len(chunks) == 0 {
		log.Warn().Str("dir", cfg.KnowledgeDir).Msg("knowledge base is empty")
		return store
	}
	if err := store.Add(ctx, chunks); err != nil {
		log.Fatal().Err(err).Msg("index knowledge base")
	}
	log.Info().Int("chunks", len(chunks)).Msg("knowledge base indexed")
	return store
}

// buildNotifier assembles the delivery fanout: log always, email and the
// Postgres ledger when configured.
func buildNotifier(ctx context.Context) (contractx.Notifier, func()) {
	channels := []contractx.Notifier{notifyx.LogNotifier{}}
	cleanup := func() {}

	if resendCfg, err := configx.New[resendx.Config]("RESEND"); err == nil {
		client, clientErr := resendx.NewClient(*resendCfg)
		if clientErr != nil {
			log.Fatal().Err(clientErr).Msg("build resend client")
		}
		email, emailErr := notifyx.NewEmailNotifier(client, resendCfg.FromEmail, resendCfg.AdminEmailList())
		if emailErr != nil {
			log.Fatal().Err(emailErr).Msg("build email notifier")
		}
		channels = append(channels, email)
		log.Info().Msg("email notifications enabled")
	} else {
		log.Warn().Msg("RESEND_API_KEY not set, email notifications disabled")
	}

	leadbookCfg := configx.MustNew[leadbookx.Config]("LEADBOOK")
	if strings.TrimSpace(leadbookCfg.DSN) != "" {
		ledger, err := leadbookx.New(*leadbookCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("build lead ledger")
		}
		if err := ledger.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure lead ledger schema")
		}
		channels = append(channels, ledger)
		cleanup = func() {
			if err := ledger.Close(); err != nil {
				log.Warn().Err(err).Msg("close lead ledger")
			}
		}
		log.Info().Msg("lead ledger enabled")
	}

	fanout, err := notifyx.NewFanout(channels...)
	if err != nil {
		log.Fatal().Err(err).Msg("build notification fanout")
	}
	return fanout, cleanup
}

func runREPL(ctx context.Context, dialogue contractx.Dialogue) {
	sessionID := uuid.NewString()
	fmt.Println("AutoStream agent ready. Type /new for a fresh session, /exit to quit.")
	fmt.Printf("session: %s\n\n", sessionID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		switch text {
		case "/exit":
			return
		case "/new":
			sessionID = uuid.NewString()
			fmt.Printf("session: %s\n\n", sessionID)
			continue
		}

		reply, err := dialogue.HandleMessage(ctx, sessionID, text)
		if err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("turn failed")
			fmt.Printf("agent> %s\n\n", apologyText)
			continue
		}
		fmt.Printf("agent> %s\n\n", reply)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("read stdin")
	}
}
