// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checksum

import (
	"context"
	"crypto/md5" //nolint:gosec // content fingerprint recorded in configurations, not a security control
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
)

// FileDigest identifies the exact input file a batch was generated against.
type FileDigest struct {
	// Path is the absolute, cleaned path of the file.
	Path string `json:"path" yaml:"path"`

	// MD5 is the hex MD5 of the file content, the digest recorded in candidates.
	MD5 string `json:"md5" yaml:"md5"`

	// SHA256 is the hex SHA-256 of the file content.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`
}

// DigestFile resolves path to an absolute path and hashes the file content.
// A missing, unreadable or non-regular file is an input file error.
func DigestFile(ctx context.Context, path string) (*FileDigest, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, inputError("failed to resolve input file path", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, inputError("input file not accessible", abs, err)
	}
	if !info.Mode().IsRegular() {
		return nil, inputError("input file is not a regular file", abs, nil)
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, inputError("failed to open input file", abs, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("failed to close input file", "path", abs, "error", cerr)
		}
	}()

	md5h := md5.New() //nolint:gosec // see import
	shah := sha256.New()
	n, err := io.Copy(io.MultiWriter(md5h, shah), f)
	if err != nil {
		return nil, inputError("failed to read input file", abs, err)
	}

	d := &FileDigest{
		Path:   abs,
		MD5:    hex.EncodeToString(md5h.Sum(nil)),
		SHA256: hex.EncodeToString(shah.Sum(nil)),
		Size:   n,
	}

	slog.Debug("input file digested",
		"path", d.Path,
		"md5", d.MD5,
		"size", d.Size,
	)

	return d, nil
}

func inputError(msg, path string, cause error) error {
	ctx := map[string]any{"path": path}
	if cause == nil {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInputFile, msg, ctx)
	}
	return cnserrors.WrapWithContext(cnserrors.ErrCodeInputFile, msg, cause, ctx)
}
