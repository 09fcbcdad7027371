/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// crdgen writes the PostgresInstance CustomResourceDefinition manifest to
// stdout. It exists so the CRD can be regenerated and applied without the
// full kubebuilder toolchain on the deployment side.
package main

import (
	"fmt"
	"os"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

func main() {
	crd := postgresInstanceCRD()
	out, err := yaml.Marshal(crd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal CRD: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(out))
}

func postgresInstanceCRD() *apiextensionsv1.CustomResourceDefinition {
	preserve := true

	anyObject := apiextensionsv1.JSONSchemaProps{
		Type:                   "object",
		XPreserveUnknownFields: &preserve,
	}
	arrayOf := func(items apiextensionsv1.JSONSchemaProps) apiextensionsv1.JSONSchemaProps {
		return apiextensionsv1.JSONSchemaProps{
			Type:  "array",
			Items: &apiextensionsv1.JSONSchemaPropsOrArray{Schema: &items},
		}
	}
	stringMap := apiextensionsv1.JSONSchemaProps{
		Type: "object",
		AdditionalProperties: &apiextensionsv1.JSONSchemaPropsOrBool{
			Schema: &apiextensionsv1.JSONSchemaProps{Type: "string"},
		},
	}

	specSchema := apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"version", "storage"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"version":  {Type: "string"},
			"image":    {Type: "string"},
			"replicas": {Type: "integer", Format: "int32", Minimum: float64Ptr(1)},
			"port": {
				Type: "integer", Format: "int32",
				Minimum: float64Ptr(1), Maximum: float64Ptr(65535),
			},
			"resources": anyObject,
			"storage": {
				Type:     "object",
				Required: []string{"size"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"size":  {Type: "string"},
					"class": {Type: "string"},
				},
			},
			"extensions": arrayOf(apiextensionsv1.JSONSchemaProps{
				Type:     "object",
				Required: []string{"name"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"name":        {Type: "string"},
					"description": {Type: "string"},
					"locations": arrayOf(apiextensionsv1.JSONSchemaProps{
						Type: "object",
						Properties: map[string]apiextensionsv1.JSONSchemaProps{
							"database": {Type: "string", Default: jsonValuePtr(`"postgres"`)},
							"schema":   {Type: "string"},
							"version":  {Type: "string"},
							"enabled":  {Type: "boolean"},
						},
					}),
				},
			}),
			"installs": arrayOf(apiextensionsv1.JSONSchemaProps{
				Type:     "object",
				Required: []string{"name"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"name":    {Type: "string"},
					"version": {Type: "string"},
				},
			}),
			"runtimeConfig":  arrayOf(pgParameterSchema()),
			"overrideConfig": arrayOf(pgParameterSchema()),
			"appServices":    arrayOf(anyObject),
			"network": {
				Type: "object",
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"ipAllowList":  arrayOf(apiextensionsv1.JSONSchemaProps{Type: "string"}),
					"extraDomains": arrayOf(apiextensionsv1.JSONSchemaProps{Type: "string"}),
				},
			},
			"pooler": {
				Type:     "object",
				Required: []string{"enabled"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"enabled": {Type: "boolean"},
					"poolMode": {
						Type:    "string",
						Enum:    []apiextensionsv1.JSON{jsonValue(`"session"`), jsonValue(`"transaction"`)},
						Default: jsonValuePtr(`"transaction"`),
					},
					"parameters": stringMap,
					"replicas":   {Type: "integer", Format: "int32", Minimum: float64Ptr(1)},
				},
			},
			"backup": {
				Type:     "object",
				Required: []string{"enabled"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"enabled":         {Type: "boolean"},
					"schedule":        {Type: "string", Default: jsonValuePtr(`"0 0 * * *"`)},
					"retentionPolicy": {Type: "string"},
					"destinationPath": {Type: "string"},
					"volumeSnapshot": {
						Type:     "object",
						Required: []string{"enabled"},
						Properties: map[string]apiextensionsv1.JSONSchemaProps{
							"enabled":       {Type: "boolean"},
							"snapshotClass": {Type: "string"},
						},
					},
				},
			},
			"monitoring": {
				Type:     "object",
				Required: []string{"enabled"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"enabled": {Type: "boolean"},
					"queries": stringMap,
				},
			},
			"stop":                   {Type: "boolean"},
			"serviceAccountTemplate": anyObject,
		},
	}

	statusSchema := apiextensionsv1.JSONSchemaProps{
		Type:                   "object",
		XPreserveUnknownFields: &preserve,
	}

	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apiextensions.k8s.io/v1",
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: "postgresinstances.pgforge.io",
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: "pgforge.io",
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Kind:       "PostgresInstance",
				ListKind:   "PostgresInstanceList",
				Plural:     "postgresinstances",
				Singular:   "postgresinstance",
				ShortNames: []string{"pgi"},
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{
					Name:    "v1alpha1",
					Served:  true,
					Storage: true,
					Subresources: &apiextensionsv1.CustomResourceSubresources{
						Status: &apiextensionsv1.CustomResourceSubresourceStatus{},
					},
					AdditionalPrinterColumns: []apiextensionsv1.CustomResourceColumnDefinition{
						{Name: "Version", Type: "string", JSONPath: ".spec.version"},
						{Name: "Phase", Type: "string", JSONPath: ".status.phase"},
						{Name: "Running", Type: "boolean", JSONPath: ".status.running"},
						{Name: "Age", Type: "date", JSONPath: ".metadata.creationTimestamp"},
					},
					Schema: &apiextensionsv1.CustomResourceValidation{
						OpenAPIV3Schema: &apiextensionsv1.JSONSchemaProps{
							Type: "object",
							Properties: map[string]apiextensionsv1.JSONSchemaProps{
								"apiVersion": {Type: "string"},
								"kind":       {Type: "string"},
								"metadata":   {Type: "object"},
								"spec":       specSchema,
								"status":     statusSchema,
							},
						},
					},
				},
			},
		},
	}
}

func pgParameterSchema() apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"name", "value"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"name":  {Type: "string"},
			"value": {Type: "string"},
		},
	}
}

func float64Ptr(f float64) *float64 { return &f }

func jsonValue(raw string) apiextensionsv1.JSON {
	return apiextensionsv1.JSON{Raw: []byte(raw)}
}

func jsonValuePtr(raw string) *apiextensionsv1.JSON {
	v := jsonValue(raw)
	return &v
}
