package service

import (
	"strings"

	"github.com/lithammer/shortuuid/v4"
)

const attemptCodeLength = 5

// CodeGenerator produces compact attempt codes. Collision safety comes from
// the attempt_code unique index; callers regenerate on conflict.
type CodeGenerator interface {
	Generate() string
}

type shortCodeGenerator struct{}

func NewCodeGenerator() CodeGenerator {
	return shortCodeGenerator{}
}

func (shortCodeGenerator) Generate() string {
	return strings.ToUpper(shortuuid.New()[:attemptCodeLength])
}
