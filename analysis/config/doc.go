// Copyright The Loadelim Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package config provides a simple way to manage configuration files for the
load-elimination pass.

Use [Load](filename) to load a configuration from a specific filename.

Use [SetGlobalConfig](filename) to set filename as the global config, and
then [LoadGlobal]() to load the global config.

A config file is in yaml format. The top-level fields can be any of the
fields defined in the Config struct type. A field absent from the file keeps
its default from [NewDefault]. For example, a valid config file is:

	log-level: 5
	pkg-filter: example.com/myapp
	use-pointer-analysis: true
	no-write-functions:
	  - package: fmt
	    method: Sprintf

# Identifying code elements

The config uses [CodeIdentifier] to identify specific code entities, such as
the external functions listed in NoWriteFunctions. The string fields of a
CodeIdentifier are matched as regexes if they compile as one, otherwise as
plain strings.
*/
package config
