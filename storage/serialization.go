// Copyright 2025 Brightpool Labs
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


package storage

import (
	"github.com/brightpool/assetvault/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalAsset serializes an Asset to bytes.
func MarshalAsset(asset *core.Asset) []byte {
	buf := make([]byte, core.AssetMUS.Size(*asset))
	core.AssetMUS.Marshal(*asset, buf)
	return buf
}

// UnmarshalAsset deserializes an Asset from bytes.
func UnmarshalAsset(data []byte) (*core.Asset, error) {
	asset, _, err := core.AssetMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// MarshalDownload serializes a Download to bytes.
func MarshalDownload(download *core.Download) []byte {
	buf := make([]byte, core.DownloadMUS.Size(*download))
	core.DownloadMUS.Marshal(*download, buf)
	return buf
}

// UnmarshalDownload deserializes a Download from bytes.
func UnmarshalDownload(data []byte) (*core.Download, error) {
	download, _, err := core.DownloadMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &download, nil
}
