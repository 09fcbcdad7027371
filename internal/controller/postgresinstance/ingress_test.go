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

package postgresinstance

import (
	"strings"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/internal/config"
)

func routeMiddlewares(t *testing.T, route *unstructured.Unstructured) []interface{} {
	t.Helper()
	routes, _, _ := unstructured.NestedSlice(route.Object, "spec", "routes")
	mws, _ := routes[0].(map[string]interface{})["middlewares"].([]interface{})
	return mws
}

func routeMatch(t *testing.T, route *unstructured.Unstructured) string {
	t.Helper()
	routes, found, err := unstructured.NestedSlice(route.Object, "spec", "routes")
	if err != nil || !found || len(routes) == 0 {
		t.Fatalf("Route has no spec.routes: found=%v err=%v", found, err)
	}
	match, _ := routes[0].(map[string]interface{})["match"].(string)
	return match
}

func routeBackend(t *testing.T, route *unstructured.Unstructured) string {
	t.Helper()
	routes, _, _ := unstructured.NestedSlice(route.Object, "spec", "routes")
	services := routes[0].(map[string]interface{})["services"].([]interface{})
	return services[0].(map[string]interface{})["name"].(string)
}

func TestBuildIngressRouteTCP(t *testing.T) {
	t.Parallel()

	scheme := testScheme(t)

	t.Run("nil without base domain", func(t *testing.T) {
		t.Parallel()

		route, err := BuildIngressRouteTCP(testInstance("pgi"), &config.Config{}, scheme)
		if err != nil {
			t.Fatalf("BuildIngressRouteTCP() error = %v", err)
		}
		if route != nil {
			t.Error("Expected nil route without a base domain")
		}
	})

	t.Run("routes to the read-write service", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{DataPlaneBaseDomain: "db.example.com"}
		route, err := BuildIngressRouteTCP(testInstance("pgi"), cfg, scheme)
		if err != nil {
			t.Fatalf("BuildIngressRouteTCP() error = %v", err)
		}

		match := routeMatch(t, route)
		if !strings.Contains(match, "HostSNI(`pgi.default.db.example.com`)") {
			t.Errorf("Match = %q, want instance host", match)
		}
		if got := routeBackend(t, route); got != "pgi-rw" {
			t.Errorf("Backend = %q, want pgi-rw", got)
		}

		passthrough, _, _ := unstructured.NestedBool(route.Object, "spec", "tls", "passthrough")
		if !passthrough {
			t.Error("TLS passthrough should be enabled")
		}
	})

	t.Run("pooler becomes the backend when enabled", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Pooler = &pgforgev1alpha1.PoolerSpec{Enabled: true}
		cfg := &config.Config{DataPlaneBaseDomain: "db.example.com"}

		route, err := BuildIngressRouteTCP(inst, cfg, scheme)
		if err != nil {
			t.Fatalf("BuildIngressRouteTCP() error = %v", err)
		}
		if got := routeBackend(t, route); got != "pgi-pooler" {
			t.Errorf("Backend = %q, want pgi-pooler", got)
		}
	})

	t.Run("no middleware reference without an allowlist", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{DataPlaneBaseDomain: "db.example.com"}
		route, err := BuildIngressRouteTCP(testInstance("pgi"), cfg, scheme)
		if err != nil {
			t.Fatalf("BuildIngressRouteTCP() error = %v", err)
		}
		if mws := routeMiddlewares(t, route); len(mws) != 0 {
			t.Errorf("Middlewares = %v, want none when no MiddlewareTCP is built", mws)
		}
	})

	t.Run("allowlist attaches the middleware", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Network = &pgforgev1alpha1.NetworkSpec{
			IPAllowList: []string{"10.0.0.0/8"},
		}
		cfg := &config.Config{DataPlaneBaseDomain: "db.example.com"}

		route, err := BuildIngressRouteTCP(inst, cfg, scheme)
		if err != nil {
			t.Fatalf("BuildIngressRouteTCP() error = %v", err)
		}
		mws := routeMiddlewares(t, route)
		if len(mws) != 1 {
			t.Fatalf("Middlewares = %v, want exactly one", mws)
		}
		ref := mws[0].(map[string]interface{})
		if ref["name"] != "pgi" || ref["namespace"] != "default" {
			t.Errorf("Middleware reference = %v, want pgi/default", ref)
		}

		// The referenced middleware must actually be part of the desired
		// set for the same spec.
		mw, err := BuildMiddlewareTCP(inst, cfg, scheme)
		if err != nil {
			t.Fatalf("BuildMiddlewareTCP() error = %v", err)
		}
		if mw == nil || mw.GetName() != ref["name"] {
			t.Errorf("MiddlewareTCP = %v, want one named %v", mw, ref["name"])
		}
	})

	t.Run("extra domains join the match", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Network = &pgforgev1alpha1.NetworkSpec{
			ExtraDomains: []string{"legacy.example.net"},
		}
		cfg := &config.Config{DataPlaneBaseDomain: "db.example.com"}

		route, err := BuildIngressRouteTCP(inst, cfg, scheme)
		if err != nil {
			t.Fatalf("BuildIngressRouteTCP() error = %v", err)
		}
		match := routeMatch(t, route)
		if !strings.Contains(match, "HostSNI(`legacy.example.net`)") {
			t.Errorf("Match = %q, want extra domain", match)
		}
		if !strings.Contains(match, " || ") {
			t.Errorf("Match = %q, want OR of hosts", match)
		}
	})
}

func TestBuildMiddlewareTCP(t *testing.T) {
	t.Parallel()

	scheme := testScheme(t)
	cfg := &config.Config{DataPlaneBaseDomain: "db.example.com"}

	t.Run("nil without allowlist", func(t *testing.T) {
		t.Parallel()

		mw, err := BuildMiddlewareTCP(testInstance("pgi"), cfg, scheme)
		if err != nil {
			t.Fatalf("BuildMiddlewareTCP() error = %v", err)
		}
		if mw != nil {
			t.Error("Expected nil middleware without an allowlist")
		}
	})

	t.Run("carries the source ranges", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Network = &pgforgev1alpha1.NetworkSpec{
			IPAllowList: []string{"10.0.0.0/8", "192.168.0.0/16"},
		}

		mw, err := BuildMiddlewareTCP(inst, cfg, scheme)
		if err != nil {
			t.Fatalf("BuildMiddlewareTCP() error = %v", err)
		}
		ranges, found, err := unstructured.NestedSlice(mw.Object, "spec", "ipAllowList", "sourceRange")
		if err != nil || !found {
			t.Fatalf("Middleware has no sourceRange: found=%v err=%v", found, err)
		}
		if len(ranges) != 2 || ranges[0] != "10.0.0.0/8" {
			t.Errorf("sourceRange = %v", ranges)
		}
	})
}

func TestBuildNetworkPolicy(t *testing.T) {
	t.Parallel()

	scheme := testScheme(t)

	t.Run("nil without allowlist", func(t *testing.T) {
		t.Parallel()

		np, err := BuildNetworkPolicy(testInstance("pgi"), scheme)
		if err != nil {
			t.Fatalf("BuildNetworkPolicy() error = %v", err)
		}
		if np != nil {
			t.Error("Expected nil NetworkPolicy without an allowlist")
		}
	})

	t.Run("allows listed CIDRs and the namespace", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Network = &pgforgev1alpha1.NetworkSpec{
			IPAllowList: []string{"10.0.0.0/8"},
		}

		np, err := BuildNetworkPolicy(inst, scheme)
		if err != nil {
			t.Fatalf("BuildNetworkPolicy() error = %v", err)
		}

		peers := np.Spec.Ingress[0].From
		if len(peers) != 2 {
			t.Fatalf("Peers = %d, want CIDR plus namespace", len(peers))
		}
		if peers[0].IPBlock == nil || peers[0].IPBlock.CIDR != "10.0.0.0/8" {
			t.Errorf("First peer = %+v, want CIDR block", peers[0])
		}
		if peers[1].PodSelector == nil {
			t.Error("Last peer should keep same-namespace pods allowed")
		}
		if got := np.Spec.Ingress[0].Ports[0].Port.IntValue(); got != 5432 {
			t.Errorf("Port = %d, want 5432", got)
		}
	})
}
