package evalscore

import (
	"github.com/datar-psa/evalscore/api"
)

type LLMGenerator = api.LLMGenerator
type Embedder = api.Embedder
type ModerationProvider = api.ModerationProvider
type ModerationCategory = api.ModerationCategory
type ModerationResult = api.ModerationResult
type TestCase = api.TestCase

var ModerationCategories = api.ModerationCategories
