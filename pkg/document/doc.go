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

// Package document tracks which preprocessing steps have run on each document
// of a corpus.
//
// Steps run in a fixed order: tokenization, segmentation, tagging and nerc.
// A Document records the payload of every completed step, and a Manager
// answers the two collection queries the bootstrap loop relies on:
//
//	raws := m.RawDocuments()                                  // empty text
//	todo, err := m.DocumentsLackingPreprocess(document.Tagging) // step not done
//
// The queries are independent: a document with text is never raw, even when
// no step has run on it yet.
package document
